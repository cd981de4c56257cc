package config

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kruzic-io/kruzic/internal/models"
)

// DefaultDirectory returns the directory written on first daemon start.
func DefaultDirectory() *models.Directory {
	return &models.Directory{
		Version: 1,
		Players: []*models.Player{
			{ID: uuid.NewString(), Username: "igrac", Name: "Igrač"},
		},
	}
}

// LoadDirectory reads players.yaml from path.
func LoadDirectory(path string) (*models.Directory, error) {
	var dir models.Directory
	if err := LoadYAML(path, &dir); err != nil {
		return nil, err
	}
	if err := validateDirectory(&dir); err != nil {
		return nil, fmt.Errorf("invalid players file %s: %w", path, err)
	}
	return &dir, nil
}

// LoadOrCreateDirectory reads players.yaml, seeding it when absent.
func LoadOrCreateDirectory(path string) (*models.Directory, error) {
	if !FileExists(path) {
		dir := DefaultDirectory()
		if err := SaveYAML(path, dir); err != nil {
			return nil, err
		}
		return dir, nil
	}
	return LoadDirectory(path)
}

func validateDirectory(dir *models.Directory) error {
	ids := make(map[string]bool, len(dir.Players))
	names := make(map[string]bool, len(dir.Players))
	for i, p := range dir.Players {
		if p == nil || p.ID == "" || p.Username == "" {
			return fmt.Errorf("player %d needs both id and username", i)
		}
		if ids[p.ID] {
			return fmt.Errorf("duplicate player id %q", p.ID)
		}
		if names[p.Username] {
			return fmt.Errorf("duplicate username %q", p.Username)
		}
		ids[p.ID] = true
		names[p.Username] = true
	}
	return nil
}
