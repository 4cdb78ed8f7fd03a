// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"github.com/united-manufacturing-hub/umh-utils/env"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, applies environment overrides and defaults.
// Validation is left to the caller.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	Normalize(&cfg)
	return &cfg, nil
}

// ApplyEnv overrides file values with environment variables when they are set.
// Secrets (token, chat id, uri) usually arrive this way.
func ApplyEnv(cfg *Config) error {
	var err error

	if cfg.Mongo.URI, err = env.GetAsString("MONGO_URI", false, cfg.Mongo.URI); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Mongo.Database, err = env.GetAsString("MONGO_DATABASE", false, cfg.Mongo.Database); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Alerting.Telegram.Token, err = env.GetAsString("TELEGRAM_TOKEN", false, cfg.Alerting.Telegram.Token); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Alerting.Telegram.ChatID, err = env.GetAsString("TELEGRAM_CHAT_ID", false, cfg.Alerting.Telegram.ChatID); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Logging.Level, err = env.GetAsString("LOGGING_LEVEL", false, cfg.Logging.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, set := os.LookupEnv("ALERTING_ENABLED"); set {
		enabled, err := env.GetAsBool("ALERTING_ENABLED", true, true)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg.Alerting.Enabled = &enabled
	}

	return nil
}
