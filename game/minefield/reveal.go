package minefield

import "github.com/beka-birhanu/vinom-mines/game"

// Reveal opens the cell at (row, col).
//
// A mine yields game.ExplodedLoss and changes nothing. A flagged or question-marked
// cell is protected and is left as is. Otherwise the cell is shown and, when it has
// no adjacent mines, the reveal cascades through the surrounding area.
func (b *Board) Reveal(row, col int) (game.Result, error) {
	if !b.InBound(row, col) {
		return game.Success, game.ErrOutOfBounds
	}
	if b.view[row][col].Marked() {
		return game.Success, nil
	}
	if b.grid[row][col] == game.Mine {
		return game.ExplodedLoss, nil
	}

	b.floodReveal(game.Position{Row: row, Col: col})
	return game.Success, nil
}

// floodReveal shows start and every cell reachable from it through zero-count
// cells. Shown cells are never pushed twice, which bounds the walk by the grid size.
// Marked cells stop the cascade.
func (b *Board) floodReveal(start game.Position) {
	stack := []game.Position{start}
	for len(stack) > 0 {
		cell := pop(&stack)
		if b.view[cell.Row][cell.Col] != game.Hidden {
			continue
		}

		b.view[cell.Row][cell.Col] = game.Shown
		if b.grid[cell.Row][cell.Col] != 0 {
			continue
		}

		for _, n := range b.neighbours(cell.Row, cell.Col) {
			if b.view[n.Row][n.Col] == game.Hidden {
				stack = append(stack, n)
			}
		}
	}
}

// pop removes and returns the last element of a stack of positions.
func pop(s *[]game.Position) game.Position {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}
