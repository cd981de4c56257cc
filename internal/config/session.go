package config

import (
	"time"

	"github.com/google/uuid"

	"github.com/kruzic-io/kruzic/internal/models"
)

// LoadSession loads ~/.kruzic/session.yaml. A missing file, or one without
// a device id, yields a session with a freshly generated device id which is
// persisted immediately so later runs reuse the same anonymous namespace.
func LoadSession() (*models.Session, error) {
	path, err := GlobalSessionFile()
	if err != nil {
		return nil, err
	}

	session, err := LoadYAMLOrDefault(path, func() *models.Session {
		return &models.Session{Version: 1}
	})
	if err != nil {
		return nil, err
	}

	if session.DeviceID == "" {
		session.DeviceID = uuid.NewString()
		if err := SaveSession(session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// SaveSession saves the session to ~/.kruzic/session.yaml.
func SaveSession(session *models.Session) error {
	path, err := GlobalSessionFile()
	if err != nil {
		return err
	}
	return SavePrivateYAML(path, session)
}

// SignInSession stores a bearer token for username.
func SignInSession(session *models.Session, username, token string) error {
	now := time.Now().UTC()
	session.Token = token
	session.Username = username
	session.SignedInAt = &now
	return SaveSession(session)
}

// SignOutSession drops the bearer token but keeps the device id.
func SignOutSession(session *models.Session) error {
	session.Token = ""
	session.Username = ""
	session.SignedInAt = nil
	return SaveSession(session)
}
