// Package gameapi exposes minesweeper sessions over HTTP.
package gameapi

import (
	"github.com/beka-birhanu/vinom-mines/config"
	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/beka-birhanu/vinom-mines/service/i"
)

// NewGameRequest starts a game from a preset or explicit dimensions.
type NewGameRequest struct {
	Preset string `json:"preset"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Mines  int    `json:"mines"`
	Player string `json:"player"`
	Seed   *int64 `json:"seed"`
}

func (r NewGameRequest) toService() i.NewGameRequest {
	return i.NewGameRequest{
		Preset: r.Preset,
		Rows:   r.Rows,
		Cols:   r.Cols,
		Mines:  r.Mines,
		Player: r.Player,
		Seed:   r.Seed,
	}
}

// MoveRequest addresses one cell. Pointers let zero coordinates pass the required check.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// FileRequest names a save file in the server's save directory.
type FileRequest struct {
	Name   string `json:"name" binding:"required"`
	Player string `json:"player"`
}

// CellResponse is one cell. Value is present only once the cell is known.
type CellResponse struct {
	State string `json:"state"`
	Value *int   `json:"value,omitempty"`
}

// GameResponse carries the full view of a session.
type GameResponse struct {
	ID        string           `json:"id,omitempty"`
	Token     string           `json:"token,omitempty"`
	Rows      int              `json:"rows"`
	Cols      int              `json:"cols"`
	Mines     int              `json:"mines"`
	Flags     int              `json:"flags"`
	MinesLeft int              `json:"mines_left"`
	Status    string           `json:"status"`
	CanUndo   bool             `json:"can_undo"`
	CanRedo   bool             `json:"can_redo"`
	Result    string           `json:"result,omitempty"`
	Changed   *bool            `json:"changed,omitempty"`
	Cells     [][]CellResponse `json:"cells"`
}

func newGameResponse(st game.State) *GameResponse {
	cells := make([][]CellResponse, len(st.Cells))
	for r, row := range st.Cells {
		cells[r] = make([]CellResponse, len(row))
		for c, cell := range row {
			cells[r][c] = CellResponse{State: cell.Visibility.String()}
			if cell.Known {
				v := cell.Value
				cells[r][c].Value = &v
			}
		}
	}

	return &GameResponse{
		Rows:      st.Rows,
		Cols:      st.Cols,
		Mines:     st.Mines,
		Flags:     st.Flags,
		MinesLeft: st.MinesLeft(),
		Status:    st.Status.String(),
		CanUndo:   st.CanUndo,
		CanRedo:   st.CanRedo,
		Cells:     cells,
	}
}

// SaveResponse identifies a stored game.
type SaveResponse struct {
	SaveID string `json:"save_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// PresetResponse describes a board size.
type PresetResponse struct {
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Mines int    `json:"mines"`
}

func newPresetResponses(ps config.Presets) []PresetResponse {
	res := make([]PresetResponse, 0, len(ps))
	for _, p := range ps {
		res = append(res, PresetResponse(p))
	}
	return res
}

// ScoreResponse is one leaderboard entry.
type ScoreResponse struct {
	Rank     int    `json:"rank"`
	Player   string `json:"player"`
	TimeMs   int64  `json:"time_ms"`
	Duration string `json:"duration"`
}

func newScoreResponses(scores []dmn.Score) []ScoreResponse {
	res := make([]ScoreResponse, 0, len(scores))
	for n, s := range scores {
		res = append(res, ScoreResponse{
			Rank:     n + 1,
			Player:   s.Player,
			TimeMs:   s.Duration.Milliseconds(),
			Duration: s.Duration.String(),
		})
	}
	return res
}
