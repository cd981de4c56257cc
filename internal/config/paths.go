// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global Kružić directory.
	GlobalDirName = ".kruzic"

	// HomeEnv overrides the global directory location.
	HomeEnv = "KRUZIC_HOME"

	// LogsDirName is the name of the diagnostic logs directory.
	LogsDirName = "logs"

	// DataDirName holds the daemon's on-disk storage.
	DataDirName = "data"
)

// File names
const (
	DaemonFileName   = "daemon.yaml"
	SettingsFileName = "settings.yaml"
	SessionFileName  = "session.yaml"
	PlayersFileName  = "players.yaml"
	SecretFileName   = "platform.key"
	SQLiteFileName   = "kruzic.db"
	CLILogFileName   = "kruzic.log"
)

// GlobalDir returns the path to the global directory (~/.kruzic/ or $KRUZIC_HOME).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	return globalFile(DaemonFileName)
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	return globalFile(SettingsFileName)
}

// GlobalSessionFile returns the path to the session.yaml file.
func GlobalSessionFile() (string, error) {
	return globalFile(SessionFileName)
}

// GlobalPlayersFile returns the path to the players.yaml file.
func GlobalPlayersFile() (string, error) {
	return globalFile(PlayersFileName)
}

// GlobalSecretFile returns the path to the token signing key.
func GlobalSecretFile() (string, error) {
	return globalFile(SecretFileName)
}

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) {
	return globalFile(LogsDirName)
}

// CLILogFile returns the path of the diagnostic log written by the demo.
func CLILogFile() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CLILogFileName), nil
}

// DefaultSQLitePath returns the default database location for the sqlite backend.
func DefaultSQLitePath() (string, error) {
	dir, err := globalFile(DataDirName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SQLiteFileName), nil
}

// EnsureGlobalDir creates the global directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
