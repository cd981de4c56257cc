// Package store persists the platform's key-value data. Every key lives in a
// namespace ("player:<id>" or "device:<id>"); values are raw JSON.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/models"
)

// Store is a namespaced key-value store. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, namespace, key string) error
	// List returns the keys of namespace in lexicographic order.
	List(ctx context.Context, namespace string) ([]string, error)
	// Snapshot returns every namespace with its values.
	Snapshot(ctx context.Context) (map[string]map[string]json.RawMessage, error)
	// Reset removes all data.
	Reset(ctx context.Context) error
	Close() error
}

// Open creates the backend selected by cfg.
func Open(ctx context.Context, cfg models.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case "", models.BackendMemory:
		return NewMemory(), nil
	case models.BackendSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case models.BackendRedis:
		r, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
