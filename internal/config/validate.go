// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/tamzrod/mongo-watchdog/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only and MUST NOT mutate configuration.
// All problems are reported at once.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	var err error

	// ------------------------------------------------------------
	// MONGO
	// ------------------------------------------------------------

	if cfg.Mongo.URI == "" {
		err = errors.Join(err, errors.New("mongo.uri is required"))
	}
	if cfg.Mongo.Database == "" {
		err = errors.Join(err, errors.New("mongo.database is required"))
	}
	if cfg.Mongo.ConnectTimeoutMs < 0 {
		err = errors.Join(err, errors.New("mongo.connect_timeout_ms must not be negative"))
	}
	if cfg.Mongo.ProbeTimeoutMs < 0 {
		err = errors.Join(err, errors.New("mongo.probe_timeout_ms must not be negative"))
	}

	// ------------------------------------------------------------
	// BACKOFF POLICY: ceiling >= baseline > 0
	// ------------------------------------------------------------

	w := cfg.Watchdog
	if w.BaselineIntervalMs <= 0 {
		err = errors.Join(err, fmt.Errorf(
			"watchdog.baseline_interval_ms must be positive, got %d",
			w.BaselineIntervalMs,
		))
	}
	if w.CeilingIntervalMs < w.BaselineIntervalMs {
		err = errors.Join(err, fmt.Errorf(
			"watchdog.ceiling_interval_ms (%d) must be >= baseline_interval_ms (%d)",
			w.CeilingIntervalMs,
			w.BaselineIntervalMs,
		))
	}

	// ------------------------------------------------------------
	// ALERTING (telegram credentials only matter when enabled)
	// ------------------------------------------------------------

	if cfg.AlertingEnabled() {
		tg := cfg.Alerting.Telegram
		if tg.Token == "" {
			err = errors.Join(err, errors.New("alerting.telegram.token is required when alerting is enabled"))
		}
		if tg.ChatID == "" {
			err = errors.Join(err, errors.New("alerting.telegram.chat_id is required when alerting is enabled"))
		}
		if tg.MaxRetries != nil && *tg.MaxRetries < 0 {
			err = errors.Join(err, errors.New("alerting.telegram.max_retries must not be negative"))
		}
	}

	// ------------------------------------------------------------
	// HTTP + STATUS (optional listeners / endpoints)
	// ------------------------------------------------------------

	if cfg.HTTP.Listen != "" {
		if _, _, e := net.SplitHostPort(cfg.HTTP.Listen); e != nil {
			err = errors.Join(err, fmt.Errorf("http.listen %q: %w", cfg.HTTP.Listen, e))
		}
	}

	if cfg.Status.Endpoint != "" {
		if _, _, e := net.SplitHostPort(cfg.Status.Endpoint); e != nil {
			err = errors.Join(err, fmt.Errorf("status.endpoint %q: %w", cfg.Status.Endpoint, e))
		}
		if cfg.Status.UnitID == 0 || cfg.Status.UnitID > 247 {
			err = errors.Join(err, fmt.Errorf(
				"status.unit_id must be within 1..247, got %d",
				cfg.Status.UnitID,
			))
		}
		if int(cfg.Status.BaseAddress)+status.SlotsPerBlock > 0x10000 {
			err = errors.Join(err, fmt.Errorf(
				"status.base_address %d leaves no room for a %d-register block",
				cfg.Status.BaseAddress,
				status.SlotsPerBlock,
			))
		}
	}

	return err
}
