package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/google/uuid"
)

// GameRepo defines the interface for saved game persistence operations.
type GameRepo interface {
	// Save inserts or updates a saved game in the repository.
	Save(ctx context.Context, game *dmn.SavedGame) error

	// ByID retrieves a saved game by its unique ID.
	// Returns dmn.ErrSavedGameNotFound if there is no such game.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.SavedGame, error)
}
