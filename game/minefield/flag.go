package minefield

import "github.com/beka-birhanu/vinom-mines/game"

// Flag cycles the mark on (row, col): Hidden -> Flagged -> QuestionMark -> Hidden.
// Shown cells are left alone.
func (b *Board) Flag(row, col int) error {
	if !b.InBound(row, col) {
		return game.ErrOutOfBounds
	}

	switch b.view[row][col] {
	case game.Hidden:
		b.view[row][col] = game.Flagged
		b.flags++
	case game.Flagged:
		b.view[row][col] = game.QuestionMark
		b.flags--
	case game.QuestionMark:
		b.view[row][col] = game.Hidden
	}
	return nil
}
