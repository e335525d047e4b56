package i

import (
	"context"
	"time"

	dmn "github.com/beka-birhanu/vinom-mines/domain"
)

// Leaderboard keeps the best winning times per board preset.
type Leaderboard interface {
	// Record stores a winning time. A player keeps only their best time.
	Record(ctx context.Context, preset, player string, d time.Duration) error

	// Top returns up to n scores, fastest first.
	Top(ctx context.Context, preset string, n int64) ([]dmn.Score, error)
}
