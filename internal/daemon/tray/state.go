// Package tray implements the system tray icon and menu for the daemon.
package tray

// DaemonState provides read-only access to daemon state for the tray.
type DaemonState interface {
	Port() int
	PlayerCount() int
	ReadyCount() int64
	RequestShutdown()
}
