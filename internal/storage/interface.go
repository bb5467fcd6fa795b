package storage

import (
	"context"

	"github.com/mcoot/chessrelay/internal/model"
)

// Storage persists identity records created at login.
// Sessions are never stored here; they live only in the session registry.
type Storage interface {
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, username model.Identity) (*model.Player, error)
	DeletePlayer(ctx context.Context, username model.Identity) error
	PlayerExists(ctx context.Context, username model.Identity) (bool, error)
}
