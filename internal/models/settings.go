package models

import "time"

// Storage backends understood by the platform daemon.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// PlatformConfig tells the demo where to reach the platform.
type PlatformConfig struct {
	Address string `yaml:"address"` // host:port; empty = read daemon.yaml
}

// StoreConfig selects and configures the daemon's storage backend.
type StoreConfig struct {
	Backend       string `yaml:"backend"` // "memory" | "sqlite" | "redis"
	SQLitePath    string `yaml:"sqlite_path,omitempty"`
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db"`
}

// TelemetryConfig holds PostHog settings. An empty key disables telemetry.
type TelemetryConfig struct {
	PostHogKey      string `yaml:"posthog_key,omitempty"`
	PostHogEndpoint string `yaml:"posthog_endpoint,omitempty"`
}

// DaemonConfig holds settings for kruzicd.
type DaemonConfig struct {
	Host      string          `yaml:"host"`
	Port      int             `yaml:"port"`      // 0 = dynamic
	HTTPPort  int             `yaml:"http_port"` // 0 = dynamic, -1 = disabled
	TokenTTL  time.Duration   `yaml:"token_ttl"`
	Store     StoreConfig     `yaml:"store"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// Settings represents global settings.
// This corresponds to ~/.kruzic/settings.yaml.
type Settings struct {
	Version  int            `yaml:"version"`
	Platform PlatformConfig `yaml:"platform"`
	Daemon   DaemonConfig   `yaml:"daemon"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Daemon: DaemonConfig{
			Host:     "localhost",
			TokenTTL: 24 * time.Hour,
			Store: StoreConfig{
				Backend: BackendMemory,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
