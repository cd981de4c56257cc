package identity

import (
	"context"
	"strings"

	"github.com/kruzic-io/kruzic/internal/models"
)

// Caller is the resolved identity of one request.
type Caller struct {
	// Player is nil for anonymous callers.
	Player   *models.Player
	DeviceID string
}

// SignedIn reports whether the caller presented a valid player token.
func (c Caller) SignedIn() bool {
	return c.Player != nil
}

// Namespace returns the storage namespace of the caller, or "" when the
// caller is anonymous and sent no device id.
func (c Caller) Namespace() string {
	if c.Player != nil {
		return "player:" + c.Player.ID
	}
	if c.DeviceID != "" {
		return "device:" + c.DeviceID
	}
	return ""
}

// Resolver turns request credentials into a Caller.
type Resolver struct {
	Players *Directory
	Tokens  *Tokens
}

// Resolve maps an authorization header value and device id to a Caller.
// Missing, malformed or expired tokens, and tokens of players that are no
// longer in the directory, resolve to an anonymous caller.
func (r *Resolver) Resolve(authorization, deviceID string) Caller {
	caller := Caller{DeviceID: deviceID}
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || token == "" {
		return caller
	}
	playerID, err := r.Tokens.Verify(token)
	if err != nil {
		return caller
	}
	caller.Player = r.Players.ByID(playerID)
	return caller
}

type callerKey struct{}

// WithCaller stores c in ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// FromContext returns the caller stored in ctx, or an anonymous caller.
func FromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller)
	return c
}
