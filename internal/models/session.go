package models

import "time"

// Session is the demo's local identity state.
// This corresponds to ~/.kruzic/session.yaml.
type Session struct {
	Version    int        `yaml:"version"`
	DeviceID   string     `yaml:"device_id"`
	Token      string     `yaml:"token,omitempty"`
	Username   string     `yaml:"username,omitempty"`
	SignedInAt *time.Time `yaml:"signed_in_at,omitempty"`
}

// SignedIn reports whether the session carries a token.
func (s *Session) SignedIn() bool {
	return s != nil && s.Token != ""
}
