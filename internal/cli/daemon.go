package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/config"
)

// daemonBinary is the platform daemon executable name.
const daemonBinary = "kruzicd"

// EnsureDaemon makes sure the daemon is running, starting it if necessary.
func EnsureDaemon() error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		return nil
	}

	// Clean up stale daemon info if it exists
	if info != nil {
		_ = config.RemoveDaemonInfo()
	}

	// Start daemon in background
	return startDaemon(false)
}

// startDaemon starts the daemon process in the background. Without a tray
// the daemon runs with --foreground in the detached process.
func startDaemon(withTray bool) error {
	// Find the daemon binary
	daemonPath, err := findDaemonBinary()
	if err != nil {
		return err
	}

	var args []string
	if !withTray {
		args = append(args, "--foreground")
	}

	// Start daemon in background
	cmd := exec.Command(daemonPath, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	logger.Info("started daemon", zap.String("path", daemonPath), zap.Int("pid", cmd.Process.Pid))
	// The daemon outlives this process.
	_ = cmd.Process.Release()

	// Wait for daemon to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsDaemonRunning()
		if err == nil && running {
			return nil
		}
	}

	return fmt.Errorf("daemon failed to start within timeout")
}

// findDaemonBinary locates the kruzicd binary.
func findDaemonBinary() (string, error) {
	// Try next to the current executable first
	execPath, err := os.Executable()
	if err == nil {
		daemonPath := filepath.Join(filepath.Dir(execPath), daemonBinary)
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	// Then PATH
	if path, err := exec.LookPath(daemonBinary); err == nil {
		return path, nil
	}

	// Try build directory
	if _, err := os.Stat(filepath.Join("build", daemonBinary)); err == nil {
		return filepath.Join("build", daemonBinary), nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", daemonBinary)
}

// GetDaemonStatus returns the daemon status.
func GetDaemonStatus() (bool, *DaemonStatusInfo, error) {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return false, nil, err
	}

	if !running || info == nil {
		return false, nil, nil
	}

	return true, &DaemonStatusInfo{
		Host:      info.Host,
		Port:      info.Port,
		HTTPPort:  info.HTTPPort,
		PID:       info.PID,
		Backend:   info.Backend,
		StartedAt: info.StartedAt,
	}, nil
}

// DaemonStatusInfo contains daemon status information.
type DaemonStatusInfo struct {
	Host      string
	Port      int
	HTTPPort  int
	PID       int
	Backend   string
	StartedAt time.Time
}
