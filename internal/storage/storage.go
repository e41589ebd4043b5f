// Package storage implements the file-backed read/write primitive for a
// whole JSON document. It knows nothing about mapping or sequence
// semantics; it reads full documents, writes full documents, and supports
// suspending writes for grouped mutation scopes.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/controversial/livejson/internal/codec"
	"github.com/controversial/livejson/internal/fsutil"
)

// ErrStorage is returned when an underlying file I/O operation fails.
var ErrStorage = errors.New("storage failure")

// Store owns the backing file of a single JSON document.
//
// All operations take a full-document view: Load reads and decodes the
// entire file, Save encodes and overwrites it. While suspended, Save
// calls update an in-memory pending document instead of touching disk,
// and Resume flushes the pending document with exactly one write.
//
// A mutex guards every operation (pessimistic locking, full operation
// under the lock). Cross-process access is not coordinated: if two
// processes write the same file, the last writer wins.
type Store struct {
	path string
	mode fs.FileMode
	enc  codec.EncodeOptions
	log  *slog.Logger

	mu        sync.Mutex
	suspended bool
	pending   any

	loads atomic.Int64
	saves atomic.Int64
}

// New opens the store for path. If the file does not exist or is empty,
// it is created holding the encoding of defaultValue; existing content is
// left untouched. Returns ErrStorage if the path is unusable (points to a
// directory, or its parent directory does not exist).
func New(path string, defaultValue any, enc codec.EncodeOptions, mode fs.FileMode, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Store{path: path, mode: mode, enc: enc, log: log}

	if fsutil.DirExists(path) {
		return nil, fmt.Errorf("%w: %s is a directory", ErrStorage, path)
	}
	if !fsutil.FileExists(path) {
		if dir := filepath.Dir(path); dir != "" && !fsutil.DirExists(dir) {
			return nil, fmt.Errorf("%w: cannot initialize %s in non-existent directory %s", ErrStorage, path, dir)
		}
	}
	if !fsutil.FileExists(path) || fsutil.FileSize(path) == 0 {
		if err := s.write(defaultValue); err != nil {
			return nil, err
		}
		s.log.Debug("initialized document", "path", path)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the full document. While suspended it returns
// the pending in-memory document instead, so that grouped mutations
// compose without reading stale disk state.
func (s *Store) Load() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (any, error) {
	if s.suspended {
		return s.pending, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, s.path, err)
	}
	v, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.loads.Add(1)
	return v, nil
}

// Save encodes v and overwrites the file's full contents. While suspended
// the write is swallowed: v becomes the pending document and no disk I/O
// happens until Resume.
func (s *Store) Save(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		s.pending = v
		return nil
	}
	return s.write(v)
}

// write encodes and writes v without consulting the suspended flag.
// Previous contents are captured first and restored best-effort if the
// write fails; a restore failure is reported joined with the write error.
func (s *Store) write(v any) error {
	data, err := codec.Encode(v, s.enc)
	if err != nil {
		return err
	}
	prev, prevErr := os.ReadFile(s.path)
	if err := os.WriteFile(s.path, data, s.mode); err != nil {
		werr := fmt.Errorf("%w: write %s: %v", ErrStorage, s.path, err)
		if prevErr == nil {
			if rerr := os.WriteFile(s.path, prev, s.mode); rerr != nil {
				return errors.Join(werr, fmt.Errorf("%w: restore %s: %v", ErrStorage, s.path, rerr))
			}
		}
		return werr
	}
	s.saves.Add(1)
	s.log.Debug("saved document", "path", s.path, "bytes", len(data))
	return nil
}

// Suspend begins a grouped-write scope. The current document is loaded
// once and becomes the pending document; until Resume, Load serves it and
// Save replaces it without disk I/O. Suspending twice is an error.
func (s *Store) Suspend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return fmt.Errorf("%w: already suspended", ErrStorage)
	}
	pending, err := s.loadLocked()
	if err != nil {
		return err
	}
	s.pending = pending
	s.suspended = true
	return nil
}

// Resume ends a grouped-write scope, flushing the pending document with
// exactly one write. Suspension is lifted even if the flush fails.
func (s *Store) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.suspended {
		return fmt.Errorf("%w: not suspended", ErrStorage)
	}
	pending := s.pending
	s.suspended = false
	s.pending = nil
	return s.write(pending)
}

// Suspended reports whether a grouped-write scope is active.
func (s *Store) Suspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended
}

// Contents returns the raw file bytes as they are on disk. Pending
// grouped writes are not reflected.
func (s *Store) Contents() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, s.path, err)
	}
	return data, nil
}

// Remove deletes the backing file.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, s.path, err)
	}
	return nil
}

// Counts returns the number of completed disk reads and writes. Useful
// for verifying that a grouped scope flushed exactly once.
func (s *Store) Counts() (loads, saves int64) {
	return s.loads.Load(), s.saves.Load()
}
