/*
Package session wraps a minefield board with undo/redo history and save/load.

Every reveal or flag first records a deep copy of the current visibility matrix,
so undo and redo never touch the mine layout. A Session is not safe for
concurrent use; callers that share one must serialise access.
*/
package session

import (
	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/beka-birhanu/vinom-mines/game/minefield"
)

// Session is one game in progress.
type Session struct {
	board *minefield.Board
	undo  history
	redo  history
	lost  bool   // Last reveal hit a mine.
	path  string // Save file bound by SaveAs or Load.
}

// New wraps b in a session with empty history.
func New(b *minefield.Board) *Session {
	return &Session{board: b}
}

// Board returns the underlying board. Mutating it directly bypasses history.
func (s *Session) Board() *minefield.Board {
	return s.board
}

// Path returns the save file bound to the session, if any.
func (s *Session) Path() string {
	return s.path
}

// Reveal records the current state and reveals (row, col).
func (s *Session) Reveal(row, col int) (game.Result, error) {
	if !s.board.InBound(row, col) {
		return game.Success, game.ErrOutOfBounds
	}

	s.record()
	res, err := s.board.Reveal(row, col)
	if err != nil {
		return res, err
	}
	if res == game.ExplodedLoss {
		s.lost = true
	}
	return res, nil
}

// Flag records the current state and cycles the mark on (row, col).
func (s *Session) Flag(row, col int) error {
	if !s.board.InBound(row, col) {
		return game.ErrOutOfBounds
	}

	s.record()
	return s.board.Flag(row, col)
}

// record pushes the live state onto the undo stack and drops the redo future.
func (s *Session) record() {
	s.undo.push(s.current())
	s.redo.clear()
}

func (s *Session) current() snapshot {
	return snapshot{view: s.board.Matrix(), lost: s.lost}
}

// install makes snap the live state.
func (s *Session) install(snap snapshot) {
	// Snapshots always come from this board, so the shape matches.
	_ = s.board.SetMatrix(snap.view)
	s.lost = snap.lost
}

// Undo restores the state before the last reveal or flag.
// It reports false when there is nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.undo.pop()
	if !ok {
		return false
	}
	s.redo.push(s.current())
	s.install(snap)
	return true
}

// Redo re-applies the last undone action.
// It reports false when there is nothing to redo.
func (s *Session) Redo() bool {
	snap, ok := s.redo.pop()
	if !ok {
		return false
	}
	s.undo.push(s.current())
	s.install(snap)
	return true
}

// Restart hides every cell and forgets all history. The mine layout is kept.
func (s *Session) Restart() {
	s.undo.clear()
	s.redo.clear()
	s.board.Reset()
	s.lost = false
}

// CanUndo reports whether Undo would do something.
func (s *Session) CanUndo() bool {
	return s.undo.len() > 0
}

// CanRedo reports whether Redo would do something.
func (s *Session) CanRedo() bool {
	return s.redo.len() > 0
}

// IsWon reports whether every safe cell has been revealed.
func (s *Session) IsWon() bool {
	return s.board.IsWon()
}

// Status returns Lost after a mine was hit, Won once every safe cell is shown,
// and Playing otherwise.
func (s *Session) Status() game.Status {
	switch {
	case s.lost:
		return game.Lost
	case s.board.IsWon():
		return game.Won
	default:
		return game.Playing
	}
}

// State projects the session for a presentation layer. Values are disclosed for
// shown cells, and for mines once the game is lost.
func (s *Session) State() game.State {
	b := s.board
	status := s.Status()
	grid := b.Grid()
	view := b.Matrix()

	cells := make([][]game.CellState, b.Rows())
	for r := range cells {
		cells[r] = make([]game.CellState, b.Cols())
		for c := range cells[r] {
			known := view[r][c] == game.Shown || (status == game.Lost && grid[r][c] == game.Mine)
			cell := game.CellState{Visibility: view[r][c], Known: known}
			if known {
				cell.Value = grid[r][c]
			}
			cells[r][c] = cell
		}
	}

	return game.State{
		Rows:    b.Rows(),
		Cols:    b.Cols(),
		Mines:   b.MineCount(),
		Flags:   b.Flags(),
		Status:  status,
		CanUndo: s.CanUndo(),
		CanRedo: s.CanRedo(),
		Cells:   cells,
	}
}
