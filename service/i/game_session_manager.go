package i

import (
	"context"
	"io"

	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/google/uuid"
)

// NewGameRequest describes a new board. A non-empty Preset takes precedence
// over Rows, Cols and Mines. A nil Seed picks a random layout.
type NewGameRequest struct {
	Preset string
	Rows   int
	Cols   int
	Mines  int
	Player string
	Seed   *int64
}

// GameSessionManager hosts live minesweeper sessions.
type GameSessionManager interface {
	NewSession(ctx context.Context, req NewGameRequest) (uuid.UUID, game.State, error)
	State(id uuid.UUID) (game.State, error)
	Reveal(ctx context.Context, id uuid.UUID, row, col int) (game.State, game.Result, error)
	Flag(id uuid.UUID, row, col int) (game.State, error)
	// Undo and Redo report whether history had an entry to apply.
	Undo(id uuid.UUID) (game.State, bool, error)
	Redo(id uuid.UUID) (game.State, bool, error)
	Restart(id uuid.UUID) (game.State, error)
	Close(id uuid.UUID) error

	// Save stores the game in the repository and returns the save ID.
	Save(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	Restore(ctx context.Context, saveID uuid.UUID, player string) (uuid.UUID, game.State, error)

	Export(id uuid.UUID, w io.Writer) error
	Import(r io.Reader, player string) (uuid.UUID, game.State, error)

	// SaveToDisk writes the game under the save directory and returns the file name used.
	SaveToDisk(id uuid.UUID, name string) (string, error)
	LoadFromDisk(name, player string) (uuid.UUID, game.State, error)

	Leaderboard(ctx context.Context, preset string, n int64) ([]dmn.Score, error)
}
