package memory

import (
	"context"
	"sync"

	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	players map[model.Identity]model.Player
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.Identity]model.Player),
	}
}

var _ storage.Storage = (*Storage)(nil)

// SavePlayer stores a copy of the player record, replacing any existing one
func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.Username] = *player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, username model.Identity) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, username model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, username)
	return nil
}

func (s *Storage) PlayerExists(ctx context.Context, username model.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[username]
	return ok, nil
}
