/*
Package savefile encodes boards into the line-oriented save game format and back.

A save game is six lines:

	FX Minesweeper Save Game
	"<rows><cols>"
	"<mine cells>"
	"<shown cells>"
	"<flagged cells>"
	"<question-marked cells>"

Every quoted record is a Go string literal. In the dimensions record the two
character codes are the row and column counts; in the four cell records each
character code is the linear index row*cols+col of one cell, in ascending order.
Quoting keeps codes such as '\n' from colliding with the line delimiter.
*/
package savefile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/beka-birhanu/vinom-mines/game/minefield"
)

const (
	// Header is the first line of every save game.
	Header = "FX Minesweeper Save Game"

	recordCount = 6
)

// Encode writes b to w in the save game format.
func Encode(w io.Writer, b *minefield.Board) error {
	rows, cols := b.Rows(), b.Cols()
	grid := b.Grid()
	view := b.Matrix()

	var mines, shown, flagged, questioned []rune
	for i := 0; i < rows*cols; i++ {
		r, c := i/cols, i%cols
		if grid[r][c] == game.Mine {
			mines = append(mines, rune(i))
		}
		switch view[r][c] {
		case game.Shown:
			shown = append(shown, rune(i))
		case game.Flagged:
			flagged = append(flagged, rune(i))
		case game.QuestionMark:
			questioned = append(questioned, rune(i))
		}
	}

	bw := bufio.NewWriter(w)
	records := []string{
		Header,
		strconv.Quote(string([]rune{rune(rows), rune(cols)})),
		strconv.Quote(string(mines)),
		strconv.Quote(string(shown)),
		strconv.Quote(string(flagged)),
		strconv.Quote(string(questioned)),
	}
	for _, rec := range records {
		if _, err := bw.WriteString(rec); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a save game from r and rebuilds its board. Adjacency counts are
// recomputed from the mine record. Malformed input yields game.ErrInvalidFormat;
// read failures are returned as they are.
func Decode(r io.Reader) (*minefield.Board, error) {
	lines, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if lines[0] != Header {
		return nil, fmt.Errorf("%w: incorrect file header", game.ErrInvalidFormat)
	}

	size, err := unquote(lines[1], "dimensions")
	if err != nil {
		return nil, err
	}
	if len(size) != 2 || size[0] <= 0 || size[1] <= 0 || int(size[0])*int(size[1]) > game.MaxCells {
		return nil, fmt.Errorf("%w: bad dimensions record", game.ErrInvalidFormat)
	}
	rows, cols := int(size[0]), int(size[1])

	grid := make([][]int, rows)
	for i := range grid {
		grid[i] = make([]int, cols)
	}
	view := game.NewVisibilityMatrix(rows, cols)

	mines, err := decodeCells(lines[2], "mines", rows, cols)
	if err != nil {
		return nil, err
	}
	for _, p := range mines {
		if grid[p.Row][p.Col] == game.Mine {
			return nil, fmt.Errorf("%w: mine at (%d,%d) listed twice", game.ErrInvalidFormat, p.Row, p.Col)
		}
		grid[p.Row][p.Col] = game.Mine
	}

	marks := []struct {
		name string
		vis  game.Visibility
	}{{"shown", game.Shown}, {"flagged", game.Flagged}, {"question", game.QuestionMark}}
	for i, m := range marks {
		cells, err := decodeCells(lines[3+i], m.name, rows, cols)
		if err != nil {
			return nil, err
		}
		for _, p := range cells {
			if view[p.Row][p.Col] != game.Hidden {
				return nil, fmt.Errorf("%w: cell (%d,%d) listed twice", game.ErrInvalidFormat, p.Row, p.Col)
			}
			if m.vis == game.Shown && grid[p.Row][p.Col] == game.Mine {
				return nil, fmt.Errorf("%w: mine at (%d,%d) is shown", game.ErrInvalidFormat, p.Row, p.Col)
			}
			view[p.Row][p.Col] = m.vis
		}
	}

	b, err := minefield.Reconstruct(grid, view)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrInvalidFormat, err)
	}
	return b, nil
}

// readRecords returns the first recordCount lines of r.
func readRecords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*game.MaxCells)

	lines := make([]string, 0, recordCount)
	for len(lines) < recordCount && scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, fmt.Errorf("%w: record too long", game.ErrInvalidFormat)
		}
		return nil, err
	}
	if len(lines) < recordCount {
		return nil, fmt.Errorf("%w: one or more missing lines", game.ErrInvalidFormat)
	}
	return lines, nil
}

func unquote(line, name string) ([]rune, error) {
	s, err := strconv.Unquote(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %s record: %w", game.ErrInvalidFormat, name, err)
	}
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: %s record is not valid text", game.ErrInvalidFormat, name)
	}
	return []rune(s), nil
}

// decodeCells maps each character code of a cell record back to a position,
// using the column count for both the division and the modulo.
func decodeCells(line, name string, rows, cols int) ([]game.Position, error) {
	codes, err := unquote(line, name)
	if err != nil {
		return nil, err
	}
	cells := make([]game.Position, 0, len(codes))
	for _, code := range codes {
		i := int(code)
		if i >= rows*cols {
			return nil, fmt.Errorf("%w: %s record index %d outside a %dx%d board", game.ErrInvalidFormat, name, i, rows, cols)
		}
		cells = append(cells, game.Position{Row: i / cols, Col: i % cols})
	}
	return cells, nil
}
