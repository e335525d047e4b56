package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSavedGameNotFound = errors.New("saved game not found")
)

// SavedGame represents the BSON version of a stored game.
// Data holds the board in the save game file format.
type SavedGame struct {
	ID      uuid.UUID `bson:"_id"`
	Data    string    `bson:"data"`
	Preset  string    `bson:"preset"`
	Player  string    `bson:"player"`
	SavedAt time.Time `bson:"savedAt"`
}

// Score is one leaderboard entry. Lower durations rank higher.
type Score struct {
	Player   string
	Duration time.Duration
}
