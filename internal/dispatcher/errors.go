package dispatcher

import (
	"errors"
	"fmt"
)

// ErrKeyRequired is the local validation failure for an empty key. It never
// reaches the platform.
var ErrKeyRequired = errors.New("key is required")

// RemoteError wraps a failed SDK call with the operation that made it.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remote(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
