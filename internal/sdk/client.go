// Package sdk is the Go client for the Kružić platform: identity queries and
// per-player key-value storage.
package sdk

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UserDetails is the public profile of the signed-in player.
type UserDetails struct {
	Name string `json:"name"`
}

// Client is the platform API consumed by games.
type Client interface {
	IsSignedIn(ctx context.Context) (bool, error)
	// GetUserID returns nil when nobody is signed in.
	GetUserID(ctx context.Context) (*string, error)
	// GetUserDetails returns nil when nobody is signed in.
	GetUserDetails(ctx context.Context) (*UserDetails, error)
	ListData(ctx context.Context) ([]string, error)
	// GetData returns nil when the key is absent.
	GetData(ctx context.Context, key string) (any, error)
	SetData(ctx context.Context, key string, value any) error
	DeleteData(ctx context.Context, key string) error
	// Ready tells the platform the game UI is up. It does not wait for,
	// or report, the outcome.
	Ready()
}

// Error is a failure reported by the platform.
type Error struct {
	Code    codes.Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsCode reports whether err is a platform error with the given code.
func IsCode(err error, code codes.Code) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// fromRPC converts a gRPC status error into *Error. Other errors pass through.
func fromRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &Error{Code: st.Code(), Message: st.Message()}
}
