package game

// CellState is the caller-facing view of a single cell.
// Value is only meaningful when Known is true.
type CellState struct {
	Visibility Visibility
	Value      int
	Known      bool
}

// State is a read-only projection of a game, safe to hand to a presentation layer.
type State struct {
	Rows    int
	Cols    int
	Mines   int
	Flags   int
	Status  Status
	CanUndo bool
	CanRedo bool
	Cells   [][]CellState
}

// MinesLeft is the mine count minus the placed flags. It goes negative when the
// player over-flags.
func (s State) MinesLeft() int {
	return s.Mines - s.Flags
}
