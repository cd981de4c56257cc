package models

import (
	"net"
	"strconv"
	"time"
)

// DaemonInfo represents the platform daemon connection information.
// This corresponds to ~/.kruzic/daemon.yaml.
type DaemonInfo struct {
	Version   int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	HTTPPort  int       `yaml:"http_port"`
	PID       int       `yaml:"pid"`
	Backend   string    `yaml:"backend"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(host string, port, httpPort, pid int, backend string) *DaemonInfo {
	return &DaemonInfo{
		Version:   1,
		Host:      host,
		Port:      port,
		HTTPPort:  httpPort,
		PID:       pid,
		Backend:   backend,
		StartedAt: time.Now().UTC(),
	}
}

// Address is the gRPC host:port the SDK dials.
func (d *DaemonInfo) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// AdminURL is the admin health endpoint, or "" when HTTP is disabled.
func (d *DaemonInfo) AdminURL() string {
	if d.HTTPPort <= 0 {
		return ""
	}
	return "http://" + net.JoinHostPort(d.Host, strconv.Itoa(d.HTTPPort)) + "/admin/health"
}
