// internal/config/config.go
package config

type Config struct {
	Mongo    MongoConfig    `yaml:"mongo"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	Alerting AlertingConfig `yaml:"alerting"`
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	Status   StatusConfig   `yaml:"status"`
}

// ---- MONGO ----

type MongoConfig struct {
	URI              string `yaml:"uri"`
	Database         string `yaml:"database"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	ProbeTimeoutMs   int    `yaml:"probe_timeout_ms"`
}

// ---- WATCHDOG ----

type WatchdogConfig struct {
	BaselineIntervalMs int  `yaml:"baseline_interval_ms"`
	CeilingIntervalMs  int  `yaml:"ceiling_interval_ms"`
	StartupNotice      bool `yaml:"startup_notice"`
}

// ---- ALERTING ----

type AlertingConfig struct {
	// Enabled is a pointer so an omitted key can default to true.
	Enabled  *bool          `yaml:"enabled"`
	Prefix   string         `yaml:"prefix"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token"`
	ChatID     string `yaml:"chat_id"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries *int   `yaml:"max_retries"`
}

// ---- LOGGING ----

type LoggingConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// ---- HTTP (health + metrics) ----

type HTTPConfig struct {
	Listen string `yaml:"listen"` // empty disables the listener
}

// ---- STATUS MIRROR (optional, opt-in) ----

type StatusConfig struct {
	Endpoint    string `yaml:"endpoint"` // empty disables the mirror
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// AlertingEnabled reports the effective alerting flag.
func (c *Config) AlertingEnabled() bool {
	return c.Alerting.Enabled == nil || *c.Alerting.Enabled
}

// LoggingEnabled reports the effective logging flag.
func (c *Config) LoggingEnabled() bool {
	return c.Logging.Enabled == nil || *c.Logging.Enabled
}
