// Package identity resolves who is calling the platform: the players
// directory and the bearer tokens issued to its players.
package identity

import (
	"sync"

	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/config"
	"github.com/kruzic-io/kruzic/internal/models"
)

// Directory holds the current players list and reloads it from disk.
type Directory struct {
	mu      sync.RWMutex
	path    string
	players *models.Directory
	logger  *zap.Logger
}

// OpenDirectory loads players.yaml at path, seeding it when missing.
func OpenDirectory(path string, logger *zap.Logger) (*Directory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	players, err := config.LoadOrCreateDirectory(path)
	if err != nil {
		return nil, err
	}
	return &Directory{path: path, players: players, logger: logger}, nil
}

// NewDirectory wraps an already loaded players list.
func NewDirectory(players *models.Directory) *Directory {
	return &Directory{players: players, logger: zap.NewNop()}
}

// Reload re-reads the file. On error the previous list stays in effect.
func (d *Directory) Reload() error {
	players, err := config.LoadDirectory(d.path)
	if err != nil {
		d.logger.Warn("keeping previous players list", zap.String("path", d.path), zap.Error(err))
		return err
	}
	d.mu.Lock()
	d.players = players
	d.mu.Unlock()
	d.logger.Info("players reloaded", zap.Int("count", len(players.Players)))
	return nil
}

// ByID returns a copy of the player with id, or nil.
func (d *Directory) ByID(id string) *models.Player {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p := d.players.FindByID(id); p != nil {
		cp := *p
		return &cp
	}
	return nil
}

// ByUsername returns a copy of the player with username, or nil.
func (d *Directory) ByUsername(username string) *models.Player {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p := d.players.FindByUsername(username); p != nil {
		cp := *p
		return &cp
	}
	return nil
}

// Len returns the number of known players.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.players.Players)
}
