package game

// Visibility is what the player currently sees of a cell.
type Visibility uint8

const (
	Hidden Visibility = iota
	Shown
	Flagged
	QuestionMark
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Shown:
		return "shown"
	case Flagged:
		return "flagged"
	case QuestionMark:
		return "question"
	default:
		return "unknown"
	}
}

// Marked reports whether the player has put a flag or a question mark on the cell.
func (v Visibility) Marked() bool {
	return v == Flagged || v == QuestionMark
}

// VisibilityMatrix is a rows x cols grid of visibility states.
type VisibilityMatrix [][]Visibility

// NewVisibilityMatrix returns an all-Hidden matrix of the given shape.
func NewVisibilityMatrix(rows, cols int) VisibilityMatrix {
	m := make(VisibilityMatrix, rows)
	for r := range m {
		m[r] = make([]Visibility, cols)
	}
	return m
}

// Clone returns a deep copy that shares no rows with m.
func (m VisibilityMatrix) Clone() VisibilityMatrix {
	if m == nil {
		return nil
	}
	c := make(VisibilityMatrix, len(m))
	for r, row := range m {
		c[r] = append([]Visibility(nil), row...)
	}
	return c
}

// Equal reports whether both matrices have the same shape and states.
func (m VisibilityMatrix) Equal(o VisibilityMatrix) bool {
	if len(m) != len(o) {
		return false
	}
	for r := range m {
		if len(m[r]) != len(o[r]) {
			return false
		}
		for c := range m[r] {
			if m[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// Count returns how many cells are in state v.
func (m VisibilityMatrix) Count(v Visibility) int {
	n := 0
	for _, row := range m {
		for _, cell := range row {
			if cell == v {
				n++
			}
		}
	}
	return n
}
