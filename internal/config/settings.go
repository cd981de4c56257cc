package config

import (
	"fmt"

	"github.com/kruzic-io/kruzic/internal/models"
)

// LoadSettings loads the global settings from ~/.kruzic/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings saves the global settings to ~/.kruzic/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ValidateSettings rejects values the daemon or demo cannot act on.
func ValidateSettings(s *models.Settings) error {
	switch s.Daemon.Store.Backend {
	case models.BackendMemory, models.BackendSQLite:
	case models.BackendRedis:
		if s.Daemon.Store.RedisAddr == "" {
			return fmt.Errorf("daemon.store.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", s.Daemon.Store.Backend)
	}
	if s.Daemon.Port < 0 {
		return fmt.Errorf("daemon.port must not be negative")
	}
	if s.Daemon.HTTPPort < -1 {
		return fmt.Errorf("daemon.http_port must be -1 (disabled) or a port")
	}
	if s.Daemon.TokenTTL < 0 {
		return fmt.Errorf("daemon.token_ttl must not be negative")
	}
	switch s.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", s.Logging.Level)
	}
	return nil
}
