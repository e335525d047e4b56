package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-mines/api"
	api_i "github.com/beka-birhanu/vinom-mines/api/i"
	"github.com/beka-birhanu/vinom-mines/config"
	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/beka-birhanu/vinom-mines/game/minefield"
	"github.com/beka-birhanu/vinom-mines/game/savefile"
	"github.com/beka-birhanu/vinom-mines/infrastruture/token"
	"github.com/beka-birhanu/vinom-mines/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	sync.Mutex
	games map[uuid.UUID]dmn.SavedGame
}

func (m *memRepo) Save(_ context.Context, g *dmn.SavedGame) error {
	m.Lock()
	defer m.Unlock()
	m.games[g.ID] = *g
	return nil
}

func (m *memRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.SavedGame, error) {
	m.Lock()
	defer m.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, dmn.ErrSavedGameNotFound
	}
	return &g, nil
}

type stubLeaderboard struct{}

func (stubLeaderboard) Record(context.Context, string, string, time.Duration) error { return nil }
func (stubLeaderboard) Top(context.Context, string, int64) ([]dmn.Score, error) {
	return []dmn.Score{{Player: "ada", Duration: 1500 * time.Millisecond}}, nil
}

type discardLogger struct{}

func (discardLogger) Info(string)    {}
func (discardLogger) Warning(string) {}
func (discardLogger) Error(string)   {}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gsm, err := service.NewGameSessionManager(&service.Config{
		Repo:        &memRepo{games: make(map[uuid.UUID]dmn.SavedGame)},
		Leaderboard: stubLeaderboard{},
		SaveDir:     t.TempDir(),
		Logger:      discardLogger{},
	})
	require.NoError(t, err)

	tokenizer := token.NewJwtService("test-secret", "vinom-mines-test")
	controller, err := NewGameController(gsm, tokenizer, config.DefaultPresets, time.Hour)
	require.NoError(t, err)

	router := api.NewRouter(api.Config{
		BaseURL:                 "/api",
		Mode:                    gin.TestMode,
		Controllers:             []api_i.Controller{controller},
		AuthorizationMiddleware: Authorize(tokenizer),
	})
	return &testServer{t: t, engine: router.Engine()}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1"+path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) game(w *httptest.ResponseRecorder, status int) GameResponse {
	s.t.Helper()
	require.Equal(s.t, status, w.Code, w.Body.String())
	var res GameResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

// cornerMineSave is a 3x3 save game with a single mine in the top left corner.
func cornerMineSave(t *testing.T) string {
	t.Helper()
	grid := [][]int{{game.Mine, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	b, err := minefield.Reconstruct(grid, game.NewVisibilityMatrix(3, 3))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, savefile.Encode(&buf, b))
	return buf.String()
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("Presets", func(t *testing.T) {
		w := s.do(http.MethodGet, "/presets", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var presets []PresetResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &presets))
		require.Len(t, presets, 4)
		assert.Equal(t, PresetResponse{Name: "large", Rows: 16, Cols: 32, Mines: 100}, presets[2])
	})

	t.Run("New game", func(t *testing.T) {
		res := s.game(s.do(http.MethodPost, "/games", "", `{"preset":"small","seed":1,"player":"ada"}`), http.StatusCreated)
		assert.NotEmpty(t, res.ID)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, 8, res.Rows)
		assert.Equal(t, 10, res.MinesLeft)
		assert.Equal(t, "playing", res.Status)
		assert.Equal(t, CellResponse{State: "hidden"}, res.Cells[7][7])
	})

	t.Run("Bad new game requests", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/games", "", `{"preset":"colossal"}`).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/games", "", `{"rows":2,"cols":2,"mines":4}`).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/games", "", `{"rows":`).Code)
	})

	t.Run("Import", func(t *testing.T) {
		res := s.game(s.do(http.MethodPost, "/games/import?player=bob", "", cornerMineSave(t)), http.StatusCreated)
		assert.Equal(t, 3, res.Rows)
		assert.Equal(t, 1, res.Mines)

		w := s.do(http.MethodPost, "/games/import", "", "FX Minesweeper Save Game\n")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Leaderboard", func(t *testing.T) {
		w := s.do(http.MethodGet, "/leaderboard/small", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var scores []ScoreResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scores))
		assert.Equal(t, []ScoreResponse{{Rank: 1, Player: "ada", TimeMs: 1500, Duration: "1.5s"}}, scores)

		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/leaderboard", "", "").Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/leaderboard/gigantic", "", "").Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/leaderboard/small?limit=0", "", "").Code)
	})

	t.Run("Restore unknown save", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/games/restore/"+uuid.NewString(), "", "").Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/games/restore/nope", "", "").Code)
	})
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	a := s.game(s.do(http.MethodPost, "/games", "", `{"preset":"small"}`), http.StatusCreated)
	b := s.game(s.do(http.MethodPost, "/games", "", `{"preset":"small"}`), http.StatusCreated)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/games/"+a.ID, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/games/"+a.ID, "garbage", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/games/"+a.ID, b.Token, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/games/"+a.ID, a.Token, "").Code)

	forged := token.NewJwtService("other-secret", "vinom-mines-test")
	tok, err := forged.Generate(map[string]interface{}{SessionClaim: a.ID}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/games/"+a.ID, tok, "").Code)
}

func TestPlay(t *testing.T) {
	s := newTestServer(t)
	g := s.game(s.do(http.MethodPost, "/games/import", "", cornerMineSave(t)), http.StatusCreated)
	path := "/games/" + g.ID

	t.Run("Hitting the mine loses", func(t *testing.T) {
		res := s.game(s.do(http.MethodPost, path+"/reveal", g.Token, `{"row":0,"col":0}`), http.StatusOK)
		assert.Equal(t, "exploded", res.Result)
		assert.Equal(t, "lost", res.Status)
		require.NotNil(t, res.Cells[0][0].Value)
		assert.Equal(t, game.Mine, *res.Cells[0][0].Value)
	})

	t.Run("Undo and redo", func(t *testing.T) {
		res := s.game(s.do(http.MethodPost, path+"/undo", g.Token, ""), http.StatusOK)
		require.NotNil(t, res.Changed)
		assert.True(t, *res.Changed)
		assert.Equal(t, "playing", res.Status)
		assert.Nil(t, res.Cells[0][0].Value)
		assert.True(t, res.CanRedo)

		res = s.game(s.do(http.MethodPost, path+"/redo", g.Token, ""), http.StatusOK)
		assert.Equal(t, "lost", res.Status)

		s.game(s.do(http.MethodPost, path+"/undo", g.Token, ""), http.StatusOK)
		res = s.game(s.do(http.MethodPost, path+"/undo", g.Token, ""), http.StatusOK)
		assert.False(t, *res.Changed)
	})

	t.Run("Flag then win", func(t *testing.T) {
		res := s.game(s.do(http.MethodPost, path+"/flag", g.Token, `{"row":0,"col":0}`), http.StatusOK)
		assert.Equal(t, "flagged", res.Cells[0][0].State)
		assert.Equal(t, 0, res.MinesLeft)

		res = s.game(s.do(http.MethodPost, path+"/reveal", g.Token, `{"row":2,"col":2}`), http.StatusOK)
		assert.Equal(t, "success", res.Result)
		assert.Equal(t, "won", res.Status)
		require.NotNil(t, res.Cells[1][1].Value)
		assert.Equal(t, 1, *res.Cells[1][1].Value)
		assert.Equal(t, CellResponse{State: "shown", Value: new(int)}, res.Cells[2][2])
	})

	t.Run("Bad moves", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, path+"/reveal", g.Token, `{"row":3,"col":0}`).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, path+"/reveal", g.Token, `{"row":0}`).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, path+"/flag", g.Token, `{"row":0,"col":-1}`).Code)
	})

	t.Run("Restart", func(t *testing.T) {
		res := s.game(s.do(http.MethodPost, path+"/restart", g.Token, ""), http.StatusOK)
		assert.Equal(t, "playing", res.Status)
		assert.Equal(t, 0, res.Flags)
		assert.False(t, res.CanUndo)
	})
}

func TestPersistence(t *testing.T) {
	s := newTestServer(t)
	data := cornerMineSave(t)
	g := s.game(s.do(http.MethodPost, "/games/import", "", data), http.StatusCreated)
	path := "/games/" + g.ID

	t.Run("Export", func(t *testing.T) {
		w := s.do(http.MethodGet, path+"/export", g.Token, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, data, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), g.ID+".sav")
	})

	t.Run("Save and restore", func(t *testing.T) {
		s.game(s.do(http.MethodPost, path+"/flag", g.Token, `{"row":1,"col":1}`), http.StatusOK)

		w := s.do(http.MethodPost, path+"/save", g.Token, "")
		require.Equal(t, http.StatusCreated, w.Code)
		var saved SaveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

		res := s.game(s.do(http.MethodPost, "/games/restore/"+saved.SaveID, "", ""), http.StatusCreated)
		assert.NotEqual(t, g.ID, res.ID)
		assert.Equal(t, "flagged", res.Cells[1][1].State)
	})

	t.Run("Save file and open it", func(t *testing.T) {
		w := s.do(http.MethodPost, path+"/save-file", g.Token, `{"name":"../corner.sav"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		var saved SaveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
		assert.Equal(t, "corner.sav", saved.Name)

		res := s.game(s.do(http.MethodPost, "/games/open", "", `{"name":"corner.sav"}`), http.StatusCreated)
		assert.Equal(t, 1, res.Flags)

		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/games/open", "", `{"name":"missing.sav"}`).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/games/open", "", `{}`).Code)
	})

	t.Run("Close", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, g.Token, "").Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, g.Token, "").Code)
	})
}
