package models

// Player is an identity known to the platform emulator.
type Player struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
}

// Directory is the list of players the daemon can sign in.
// This corresponds to ~/.kruzic/players.yaml.
type Directory struct {
	Version int       `yaml:"version"`
	Players []*Player `yaml:"players"`
}

// FindByID returns the player with the given id, or nil.
func (d *Directory) FindByID(id string) *Player {
	for _, p := range d.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindByUsername returns the player with the given username, or nil.
func (d *Directory) FindByUsername(username string) *Player {
	for _, p := range d.Players {
		if p.Username == username {
			return p
		}
	}
	return nil
}
