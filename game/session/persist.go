package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/beka-birhanu/vinom-mines/game/savefile"
)

var (
	ErrNoSaveFile = errors.New("session has no save file")
)

// WriteTo encodes the board in the save game format. History is not saved.
func (s *Session) WriteTo(w io.Writer) error {
	if err := savefile.Encode(w, s.board); err != nil {
		return fmt.Errorf("%w: %w", game.ErrIO, err)
	}
	return nil
}

// Save writes the game to the file bound by the last SaveAs or Load.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoSaveFile
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the game to path and binds the session to it. The file is
// replaced atomically, so a failed save leaves any previous file intact.
func (s *Session) SaveAs(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", game.ErrIO, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := s.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", game.ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", game.ErrIO, err)
	}

	s.path = path
	return nil
}

// Read decodes a save game into a new session with empty history.
func Read(r io.Reader) (*Session, error) {
	b, err := savefile.Decode(r)
	if err != nil {
		if errors.Is(err, game.ErrInvalidFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", game.ErrIO, err)
	}
	return New(b), nil
}

// Load reads the save game at path into a new session bound to that file.
func Load(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrIO, err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, err
	}
	s.path = path
	return s, nil
}
