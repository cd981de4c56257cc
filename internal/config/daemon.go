package config

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/kruzic-io/kruzic/internal/models"
)

// daemon.yaml is published by kruzicd once its listeners are bound and
// removed on shutdown. A file whose process is gone is stale.

// LoadDaemonInfo reads daemon.yaml. It returns nil when no daemon has
// published one.
func LoadDaemonInfo() (*models.DaemonInfo, error) {
	path, err := GlobalDaemonFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, nil
	}
	info := &models.DaemonInfo{}
	if err := LoadYAML(path, info); err != nil {
		return nil, err
	}
	return info, nil
}

// SaveDaemonInfo publishes info for the CLI to find.
func SaveDaemonInfo(info *models.DaemonInfo) error {
	if info == nil || info.Port <= 0 {
		return errors.New("daemon info needs a bound gRPC port")
	}
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveDaemonInfo withdraws daemon.yaml. A missing file is not an error.
func RemoveDaemonInfo() error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	return RemoveFile(path)
}

// IsDaemonRunning reports whether the daemon that published daemon.yaml is
// alive. A stale file is removed; its info is still returned so callers can
// mention the old PID.
func IsDaemonRunning() (bool, *models.DaemonInfo, error) {
	info, err := LoadDaemonInfo()
	if err != nil || info == nil {
		return false, nil, err
	}
	if processAlive(info.PID) {
		return true, info, nil
	}
	if err := RemoveDaemonInfo(); err != nil {
		return false, info, fmt.Errorf("failed to remove stale daemon info: %w", err)
	}
	return false, info, nil
}

// processAlive probes pid with signal 0, which delivers nothing. EPERM
// means the process exists under another user.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
