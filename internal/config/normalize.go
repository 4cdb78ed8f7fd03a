// internal/config/normalize.go
package config

import "strings"

const (
	DefaultBaselineIntervalMs = 5_000
	DefaultCeilingIntervalMs  = 60 * 60 * 1000
	DefaultConnectTimeoutMs   = 10_000
	DefaultProbeTimeoutMs     = 10_000
	DefaultNotifyTimeoutMs    = 5_000
	DefaultNotifyRetries      = 2
	DefaultStatusTimeoutMs    = 2_000
	DefaultTelegramURL        = "https://api.telegram.org"
)

// Normalize fills defaults for omitted values.
// It is allowed to mutate configuration.
// Explicitly invalid values (e.g. negative intervals) are left for Validate to reject.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Watchdog.BaselineIntervalMs == 0 {
		cfg.Watchdog.BaselineIntervalMs = DefaultBaselineIntervalMs
	}
	if cfg.Watchdog.CeilingIntervalMs == 0 {
		cfg.Watchdog.CeilingIntervalMs = DefaultCeilingIntervalMs
	}

	if cfg.Mongo.ConnectTimeoutMs == 0 {
		cfg.Mongo.ConnectTimeoutMs = DefaultConnectTimeoutMs
	}
	if cfg.Mongo.ProbeTimeoutMs == 0 {
		cfg.Mongo.ProbeTimeoutMs = DefaultProbeTimeoutMs
	}

	tg := &cfg.Alerting.Telegram
	if tg.URL == "" {
		tg.URL = DefaultTelegramURL
	}
	// Stored without trailing slash; the notifier appends path segments.
	tg.URL = strings.TrimRight(tg.URL, "/")
	if tg.TimeoutMs == 0 {
		tg.TimeoutMs = DefaultNotifyTimeoutMs
	}
	if tg.MaxRetries == nil {
		n := DefaultNotifyRetries
		tg.MaxRetries = &n
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "CONSOLE"
	}

	if cfg.Status.Endpoint != "" && cfg.Status.TimeoutMs == 0 {
		cfg.Status.TimeoutMs = DefaultStatusTimeoutMs
	}
}
