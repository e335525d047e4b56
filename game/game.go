// Package game holds the vocabulary shared by the minefield engine, its session
// layer and the services built on top of them.
package game

import "errors"

// Game-related errors.
var (
	ErrInvalidConfig = errors.New("invalid board configuration")
	ErrOutOfBounds   = errors.New("cell is out of the board")
	ErrInvalidFormat = errors.New("invalid save game format")
	ErrIO            = errors.New("save game i/o failure")
)

const (
	// Mine marks a mined cell in a board grid. Any other grid value is the
	// number of mines among the cell's neighbours.
	Mine = -1

	// MaxCells caps rows*cols so that every dimension and linear cell index stays
	// a valid character code below the surrogate range in the save format.
	MaxCells = 0xD7FF
)

// Result is the outcome of a reveal.
type Result int

const (
	Success      Result = iota // Cell(s) revealed, or nothing to do.
	ExplodedLoss               // The revealed cell holds a mine.
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case ExplodedLoss:
		return "exploded"
	default:
		return "unknown"
	}
}

// Status is the state of a game as seen by its player.
type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Position represents the position of a cell in the board grid.
type Position struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}
