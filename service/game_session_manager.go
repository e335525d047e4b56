package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-mines/config"
	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/beka-birhanu/vinom-mines/game/minefield"
	"github.com/beka-birhanu/vinom-mines/game/session"
	"github.com/beka-birhanu/vinom-mines/service/i"
	"github.com/google/uuid"
)

const (
	anonymousPlayer = "anonymous"
)

var (
	ErrSessionNotFound = errors.New("no such game session")
	ErrSaveNotFound    = errors.New("no such save file")
	ErrInvalidSaveName = errors.New("invalid save file name")
)

// entry is a live session plus the metadata needed for ranking it.
type entry struct {
	sync.Mutex
	game      *session.Session
	preset    string
	player    string
	startedAt time.Time
	ranked    bool // Fresh unseeded preset game, eligible for the leaderboard.
	recorded  bool
}

// GameSessionManager hosts minesweeper sessions in memory.
// Each session is guarded by its own mutex; the map by the embedded RWMutex.
type GameSessionManager struct {
	sessions    map[uuid.UUID]*entry
	presets     config.Presets
	repo        i.GameRepo
	leaderboard i.Leaderboard
	saveDir     string
	logger      i.Logger
	now         func() time.Time
	sync.RWMutex
}

type Config struct {
	Presets     config.Presets
	Repo        i.GameRepo
	Leaderboard i.Leaderboard
	SaveDir     string
	Logger      i.Logger
	Clock       func() time.Time // Defaults to time.Now.
}

func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c.Repo == nil || c.Leaderboard == nil || c.Logger == nil {
		return nil, errors.New("session manager needs a repo, a leaderboard and a logger")
	}
	if c.SaveDir == "" {
		return nil, errors.New("session manager needs a save directory")
	}

	presets := c.Presets
	if len(presets) == 0 {
		presets = config.DefaultPresets
	}
	now := c.Clock
	if now == nil {
		now = time.Now
	}

	return &GameSessionManager{
		sessions:    make(map[uuid.UUID]*entry),
		presets:     presets,
		repo:        c.Repo,
		leaderboard: c.Leaderboard,
		saveDir:     c.SaveDir,
		logger:      c.Logger,
		now:         now,
	}, nil
}

// NewSession creates a board from a preset or explicit dimensions and hosts it.
func (g *GameSessionManager) NewSession(ctx context.Context, req i.NewGameRequest) (uuid.UUID, game.State, error) {
	rows, cols, mines := req.Rows, req.Cols, req.Mines
	if req.Preset != "" {
		p, err := g.presets.Lookup(req.Preset)
		if err != nil {
			return uuid.Nil, game.State{}, err
		}
		rows, cols, mines = p.Rows, p.Cols, p.Mines
		req.Preset = p.Name
	}

	var opts []minefield.Option
	if req.Seed != nil {
		opts = append(opts, minefield.WithSeed(*req.Seed))
	} else {
		opts = append(opts, minefield.WithRand(rand.New(rand.NewSource(g.now().UnixNano()))))
	}

	b, err := minefield.New(rows, cols, mines, opts...)
	if err != nil {
		return uuid.Nil, game.State{}, err
	}

	e := &entry{
		game:   session.New(b),
		preset: req.Preset,
		player: req.Player,
		ranked: req.Preset != "" && req.Seed == nil,
	}
	id := g.host(e)
	g.logger.Info(fmt.Sprintf("started %dx%d game with %d mines for %s: %s", rows, cols, mines, e.player, id))
	return id, e.game.State(), nil
}

// host registers e under a fresh ID.
func (g *GameSessionManager) host(e *entry) uuid.UUID {
	if e.player == "" {
		e.player = anonymousPlayer
	}
	e.startedAt = g.now()

	g.Lock()
	defer g.Unlock()
	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}
	g.sessions[sessionID] = e
	return sessionID
}

func (g *GameSessionManager) lookup(id uuid.UUID) (*entry, error) {
	g.RLock()
	defer g.RUnlock()
	e, ok := g.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

// with runs fn with exclusive access to the session.
func (g *GameSessionManager) with(id uuid.UUID, fn func(e *entry) error) error {
	e, err := g.lookup(id)
	if err != nil {
		return err
	}
	e.Lock()
	defer e.Unlock()
	return fn(e)
}

func (g *GameSessionManager) State(id uuid.UUID) (game.State, error) {
	var st game.State
	err := g.with(id, func(e *entry) error {
		st = e.game.State()
		return nil
	})
	return st, err
}

// Reveal opens a cell. Winning a ranked game records the elapsed time.
func (g *GameSessionManager) Reveal(ctx context.Context, id uuid.UUID, row, col int) (game.State, game.Result, error) {
	var (
		st  game.State
		res game.Result
	)
	err := g.with(id, func(e *entry) error {
		var err error
		res, err = e.game.Reveal(row, col)
		if err != nil {
			return err
		}
		st = e.game.State()
		if st.Status == game.Won && e.ranked && !e.recorded {
			e.recorded = true
			g.record(ctx, e)
		}
		return nil
	})
	if err != nil {
		return game.State{}, res, err
	}
	return st, res, nil
}

// record publishes a win. Leaderboard failures never fail the move.
func (g *GameSessionManager) record(ctx context.Context, e *entry) {
	elapsed := g.now().Sub(e.startedAt)
	if err := g.leaderboard.Record(ctx, e.preset, e.player, elapsed); err != nil {
		g.logger.Warning(fmt.Sprintf("recording %s win for %s: %s", e.preset, e.player, err))
		return
	}
	g.logger.Info(fmt.Sprintf("%s won a %s game in %s", e.player, e.preset, elapsed))
}

func (g *GameSessionManager) Flag(id uuid.UUID, row, col int) (game.State, error) {
	var st game.State
	err := g.with(id, func(e *entry) error {
		if err := e.game.Flag(row, col); err != nil {
			return err
		}
		st = e.game.State()
		return nil
	})
	return st, err
}

func (g *GameSessionManager) Undo(id uuid.UUID) (game.State, bool, error) {
	var (
		st game.State
		ok bool
	)
	err := g.with(id, func(e *entry) error {
		ok = e.game.Undo()
		st = e.game.State()
		return nil
	})
	return st, ok, err
}

func (g *GameSessionManager) Redo(id uuid.UUID) (game.State, bool, error) {
	var (
		st game.State
		ok bool
	)
	err := g.with(id, func(e *entry) error {
		ok = e.game.Redo()
		st = e.game.State()
		return nil
	})
	return st, ok, err
}

// Restart hides every cell and restarts the clock.
func (g *GameSessionManager) Restart(id uuid.UUID) (game.State, error) {
	var st game.State
	err := g.with(id, func(e *entry) error {
		e.game.Restart()
		e.startedAt = g.now()
		st = e.game.State()
		return nil
	})
	return st, err
}

func (g *GameSessionManager) Close(id uuid.UUID) error {
	g.Lock()
	defer g.Unlock()
	if _, ok := g.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(g.sessions, id)
	g.logger.Info(fmt.Sprintf("closed game %s", id))
	return nil
}

// CloseAll drops every hosted session.
func (g *GameSessionManager) CloseAll() {
	g.Lock()
	defer g.Unlock()
	g.sessions = make(map[uuid.UUID]*entry)
}

// Save stores the board in the repository under a new save ID.
func (g *GameSessionManager) Save(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var saved dmn.SavedGame
	err := g.with(id, func(e *entry) error {
		var buf bytes.Buffer
		if err := e.game.WriteTo(&buf); err != nil {
			return err
		}
		saved = dmn.SavedGame{
			ID:      uuid.New(),
			Data:    buf.String(),
			Preset:  e.preset,
			Player:  e.player,
			SavedAt: g.now().UTC(),
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	if err := g.repo.Save(ctx, &saved); err != nil {
		g.logger.Error(fmt.Sprintf("storing game %s: %s", id, err))
		return uuid.Nil, fmt.Errorf("%w: %w", game.ErrIO, err)
	}
	g.logger.Info(fmt.Sprintf("saved game %s as %s", id, saved.ID))
	return saved.ID, nil
}

// Restore hosts a stored game in a new session. Restored games are never ranked.
func (g *GameSessionManager) Restore(ctx context.Context, saveID uuid.UUID, player string) (uuid.UUID, game.State, error) {
	saved, err := g.repo.ByID(ctx, saveID)
	if err != nil {
		if errors.Is(err, dmn.ErrSavedGameNotFound) {
			return uuid.Nil, game.State{}, err
		}
		return uuid.Nil, game.State{}, fmt.Errorf("%w: %w", game.ErrIO, err)
	}

	if player == "" {
		player = saved.Player
	}
	s, err := session.Read(bytes.NewBufferString(saved.Data))
	if err != nil {
		return uuid.Nil, game.State{}, err
	}
	return g.adopt(s, saved.Preset, player)
}

func (g *GameSessionManager) adopt(s *session.Session, preset, player string) (uuid.UUID, game.State, error) {
	e := &entry{game: s, preset: preset, player: player}
	id := g.host(e)
	g.logger.Info(fmt.Sprintf("resumed game for %s: %s", e.player, id))
	return id, s.State(), nil
}

// Export writes the board in the save game format.
func (g *GameSessionManager) Export(id uuid.UUID, w io.Writer) error {
	return g.with(id, func(e *entry) error {
		return e.game.WriteTo(w)
	})
}

// Import hosts a board read in the save game format.
func (g *GameSessionManager) Import(r io.Reader, player string) (uuid.UUID, game.State, error) {
	s, err := session.Read(r)
	if err != nil {
		return uuid.Nil, game.State{}, err
	}
	return g.adopt(s, "", player)
}

// savePath confines name to the save directory.
func (g *GameSessionManager) savePath(name string) (string, string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSaveName, name)
	}
	return base, filepath.Join(g.saveDir, base), nil
}

func (g *GameSessionManager) SaveToDisk(id uuid.UUID, name string) (string, error) {
	base, path, err := g.savePath(name)
	if err != nil {
		return "", err
	}

	err = g.with(id, func(e *entry) error {
		return e.game.SaveAs(path)
	})
	if err != nil {
		return "", err
	}
	g.logger.Info(fmt.Sprintf("wrote game %s to %s", id, path))
	return base, nil
}

func (g *GameSessionManager) LoadFromDisk(name, player string) (uuid.UUID, game.State, error) {
	_, path, err := g.savePath(name)
	if err != nil {
		return uuid.Nil, game.State{}, err
	}

	s, err := session.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return uuid.Nil, game.State{}, fmt.Errorf("%w: %w", ErrSaveNotFound, err)
		}
		return uuid.Nil, game.State{}, err
	}
	return g.adopt(s, "", player)
}

// Leaderboard returns the n fastest wins for a preset.
func (g *GameSessionManager) Leaderboard(ctx context.Context, preset string, n int64) ([]dmn.Score, error) {
	p, err := g.presets.Lookup(preset)
	if err != nil {
		return nil, err
	}
	scores, err := g.leaderboard.Top(ctx, p.Name, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrIO, err)
	}
	return scores, nil
}
