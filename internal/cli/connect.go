package cli

import (
	"fmt"

	"google.golang.org/grpc"

	"github.com/kruzic-io/kruzic/internal/config"
	"github.com/kruzic-io/kruzic/internal/dispatcher"
	"github.com/kruzic-io/kruzic/internal/models"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

// dialOptions are appended to every SDK connection. Tests point it at an
// in-process platform.
var dialOptions []grpc.DialOption

// platformConn is an SDK client plus the identity it was dialed with.
type platformConn struct {
	client  *sdk.GRPCClient
	session *models.Session
	address string
}

func (c *platformConn) Close() error {
	return c.client.Close()
}

// connectPlatform dials the platform with the stored session. Without an
// explicit address it starts the local daemon when needed.
func connectPlatform() (*platformConn, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	addr, err := resolveAddress(settings)
	if err != nil {
		return nil, err
	}
	session, err := config.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	client, err := sdk.Dial(sdk.Options{
		Address:     addr,
		DeviceID:    session.DeviceID,
		Token:       session.Token,
		Logger:      logger,
		DialOptions: dialOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to platform: %w", err)
	}
	return &platformConn{client: client, session: session, address: addr}, nil
}

func resolveAddress(settings *models.Settings) (string, error) {
	if addressFlag != "" {
		return addressFlag, nil
	}
	if settings.Platform.Address != "" {
		return settings.Platform.Address, nil
	}

	if err := EnsureDaemon(); err != nil {
		return "", err
	}
	info, err := config.LoadDaemonInfo()
	if err != nil {
		return "", fmt.Errorf("failed to load daemon info: %w", err)
	}
	if info == nil {
		return "", fmt.Errorf("daemon not running")
	}
	return info.Address(), nil
}

// headless binds a printer-backed dispatcher session to conn.
func headless(conn *platformConn, p *printer) *dispatcher.Session {
	return dispatcher.New(conn.client, p, dispatcher.WithLogger(logger))
}
