/*
Package minefield provides the board state engine of a mine-sweeping game.

A Board owns the mine layout, fixed at construction, and the per-cell visibility
state the player changes through Reveal and Flag. Adjacency counts are computed
once from the mine positions and are never read back from persisted data.
*/
package minefield

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-mines/game"
)

const (
	// placementRetryFactor bounds rejection sampling: a single mine may collide
	// at most placementRetryFactor*cells times before placement gives up.
	placementRetryFactor = 64
)

var (
	// neighbourOffsets lists the 8-neighbourhood of a cell.
	neighbourOffsets = [8]game.Position{
		{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1},
		{Row: 0, Col: -1}, {Row: 0, Col: 1},
		{Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	}
)

// Option configures a Board built by New.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand places mines using r instead of a time-seeded source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithSeed places mines from a source seeded with seed, so layouts are reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// Board represents a rectangular minefield.
type Board struct {
	rows  int                   // Number of rows
	cols  int                   // Number of columns
	mines int                   // Number of mined cells
	flags int                   // Number of cells currently Flagged
	grid  [][]int               // game.Mine or the adjacency count of each cell
	view  game.VisibilityMatrix // What the player sees of each cell
}

// New creates a board of the given size and randomly places mineCount mines on it.
func New(rows, cols, mineCount int, opts ...Option) (*Board, error) {
	if err := validateConfig(rows, cols, mineCount); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &Board{
		rows:  rows,
		cols:  cols,
		mines: mineCount,
		grid:  newGrid(rows, cols),
		view:  game.NewVisibilityMatrix(rows, cols),
	}
	if err := b.placeMines(o.rng); err != nil {
		return nil, err
	}
	b.countAdjacent()

	return b, nil
}

// Reconstruct rebuilds a board from a grid in which mined cells hold game.Mine and
// from a visibility matrix of the same shape. Every other grid value is ignored:
// adjacency counts are recomputed from the mine positions.
func Reconstruct(grid [][]int, view game.VisibilityMatrix) (*Board, error) {
	rows := len(grid)
	if rows == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", game.ErrInvalidConfig)
	}
	cols := len(grid[0])
	if len(view) != rows {
		return nil, fmt.Errorf("%w: visibility has %d rows, grid has %d", game.ErrInvalidConfig, len(view), rows)
	}

	b := &Board{
		rows: rows,
		cols: cols,
		grid: newGrid(rows, cols),
		view: view.Clone(),
	}
	for r := range grid {
		if len(grid[r]) != cols || len(view[r]) != cols {
			return nil, fmt.Errorf("%w: row %d is not %d cells wide", game.ErrInvalidConfig, r, cols)
		}
		for c, v := range grid[r] {
			if v == game.Mine {
				b.grid[r][c] = game.Mine
				b.mines++
			}
		}
	}
	if err := validateConfig(rows, cols, b.mines); err != nil {
		return nil, err
	}

	b.countAdjacent()
	b.flags = b.view.Count(game.Flagged)
	return b, nil
}

// validateConfig checks the (rows, cols, mineCount) triple.
func validateConfig(rows, cols, mineCount int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", game.ErrInvalidConfig, rows, cols)
	}
	if rows > game.MaxCells/cols {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", game.ErrInvalidConfig, rows, cols, game.MaxCells)
	}
	if mineCount < 0 || mineCount >= rows*cols {
		return fmt.Errorf("%w: %d mines do not fit a %dx%d board", game.ErrInvalidConfig, mineCount, rows, cols)
	}
	return nil
}

func newGrid(rows, cols int) [][]int {
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
	}
	return grid
}

// placeMines samples distinct random cells, resampling on collision.
func (b *Board) placeMines(rng *rand.Rand) error {
	maxRetries := placementRetryFactor * b.rows * b.cols
	for placed := 0; placed < b.mines; placed++ {
		retries := 0
		for {
			r, c := rng.Intn(b.rows), rng.Intn(b.cols)
			if b.grid[r][c] != game.Mine {
				b.grid[r][c] = game.Mine
				break
			}
			retries++
			if retries > maxRetries {
				return fmt.Errorf("%w: mine placement stalled after %d of %d mines", game.ErrInvalidConfig, placed, b.mines)
			}
		}
	}
	return nil
}

// countAdjacent sets every non-mine cell to the number of mines around it.
func (b *Board) countAdjacent() {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if b.grid[r][c] == game.Mine {
				continue
			}
			count := 0
			for _, n := range b.neighbours(r, c) {
				if b.grid[n.Row][n.Col] == game.Mine {
					count++
				}
			}
			b.grid[r][c] = count
		}
	}
}

// neighbours returns the in-bound 8-neighbourhood of (row, col).
func (b *Board) neighbours(row, col int) []game.Position {
	result := make([]game.Position, 0, len(neighbourOffsets))
	for _, d := range neighbourOffsets {
		if b.InBound(row+d.Row, col+d.Col) {
			result = append(result, game.Position{Row: row + d.Row, Col: col + d.Col})
		}
	}
	return result
}

// InBound reports whether (row, col) addresses a cell of the board.
func (b *Board) InBound(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b *Board) Cols() int {
	return b.cols
}

// MineCount returns the number of mines on the board.
func (b *Board) MineCount() int {
	return b.mines
}

// Flags returns the number of cells currently flagged.
func (b *Board) Flags() int {
	return b.flags
}

// IsMine reports whether (row, col) holds a mine. Out of range cells never do.
func (b *Board) IsMine(row, col int) bool {
	return b.InBound(row, col) && b.grid[row][col] == game.Mine
}

// Value returns game.Mine or the adjacency count of (row, col).
func (b *Board) Value(row, col int) (int, error) {
	if !b.InBound(row, col) {
		return 0, game.ErrOutOfBounds
	}
	return b.grid[row][col], nil
}

// Visibility returns the visibility state of (row, col).
func (b *Board) Visibility(row, col int) (game.Visibility, error) {
	if !b.InBound(row, col) {
		return game.Hidden, game.ErrOutOfBounds
	}
	return b.view[row][col], nil
}

// Grid returns a copy of the value grid.
func (b *Board) Grid() [][]int {
	grid := newGrid(b.rows, b.cols)
	for r := range b.grid {
		copy(grid[r], b.grid[r])
	}
	return grid
}

// Matrix returns a deep copy of the live visibility matrix.
func (b *Board) Matrix() game.VisibilityMatrix {
	return b.view.Clone()
}

// SetMatrix installs a copy of m as the live visibility matrix and recounts flags.
// The mine layout is left untouched.
func (b *Board) SetMatrix(m game.VisibilityMatrix) error {
	if len(m) != b.rows {
		return fmt.Errorf("%w: matrix has %d rows, board has %d", game.ErrInvalidConfig, len(m), b.rows)
	}
	for r := range m {
		if len(m[r]) != b.cols {
			return fmt.Errorf("%w: matrix row %d is not %d cells wide", game.ErrInvalidConfig, r, b.cols)
		}
	}
	b.view = m.Clone()
	b.flags = b.view.Count(game.Flagged)
	return nil
}

// Reset hides every cell again, keeping the mine layout.
func (b *Board) Reset() {
	b.view = game.NewVisibilityMatrix(b.rows, b.cols)
	b.flags = 0
}

// IsWon reports whether every cell that is not a mine has been revealed.
// Mines may be in any state.
func (b *Board) IsWon() bool {
	for r := range b.grid {
		for c, v := range b.grid[r] {
			if v != game.Mine && b.view[r][c] != game.Shown {
				return false
			}
		}
	}
	return true
}

// String provides a textual representation of the board as the player sees it.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			switch b.view[r][c] {
			case game.Flagged:
				sb.WriteByte('F')
			case game.QuestionMark:
				sb.WriteByte('?')
			case game.Shown:
				switch v := b.grid[r][c]; {
				case v == game.Mine:
					sb.WriteByte('*')
				case v == 0:
					sb.WriteByte(' ')
				default:
					sb.WriteByte(byte('0' + v))
				}
			default:
				sb.WriteByte('#')
			}
		}
		if r < b.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
