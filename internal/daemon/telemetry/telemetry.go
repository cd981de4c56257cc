// Package telemetry reports anonymous platform usage to PostHog.
package telemetry

import (
	"fmt"

	"github.com/posthog/posthog-go"
	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/models"
)

// EventSDKCall is captured once per platform RPC.
const EventSDKCall = "sdk_call"

// Sink receives usage events.
type Sink interface {
	Capture(distinctID, method, code string)
	Close() error
}

// New returns a PostHog sink when cfg carries a key, and a no-op sink
// otherwise.
func New(cfg models.TelemetryConfig, version string, logger *zap.Logger) (Sink, error) {
	if cfg.PostHogKey == "" {
		return Nop{}, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	phCfg := posthog.Config{}
	if cfg.PostHogEndpoint != "" {
		phCfg.Endpoint = cfg.PostHogEndpoint
	}
	client, err := posthog.NewWithConfig(cfg.PostHogKey, phCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create posthog client: %w", err)
	}
	logger.Info("telemetry enabled", zap.String("endpoint", cfg.PostHogEndpoint))
	return &postHog{client: client, version: version, logger: logger}, nil
}

type postHog struct {
	client  posthog.Client
	version string
	logger  *zap.Logger
}

func (p *postHog) Capture(distinctID, method, code string) {
	if distinctID == "" {
		distinctID = "anonymous"
	}
	err := p.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      EventSDKCall,
		Properties: posthog.NewProperties().
			Set("method", method).
			Set("code", code).
			Set("daemon_version", p.version),
	})
	if err != nil {
		p.logger.Debug("telemetry enqueue failed", zap.Error(err))
	}
}

func (p *postHog) Close() error {
	return p.client.Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Capture(string, string, string) {}
func (Nop) Close() error                   { return nil }
