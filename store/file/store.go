// Package file provides a single-file JSON Store. The whole snapshot is
// written as one document, making the on-disk state easy to inspect and
// back up. Suited to single-process deployments.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/state"
)

type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	closed bool
}

// Option configures a file Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store backed by the JSON document at path. The file does
// not need to exist yet.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the snapshot document. A missing file yields an empty
// snapshot. An unreadable document is logged and replaced by an empty
// snapshot on the next Save rather than wedging startup.
func (s *Store) Load(_ context.Context) (*state.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, medledger.ErrStoreClosed
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return state.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	snap := state.New()
	if err := json.Unmarshal(data, snap); err != nil {
		s.logger.Warn("snapshot document unreadable, starting empty",
			"path", s.path,
			"error", err,
		)
		return state.New(), nil
	}
	snap.Init()
	return snap, nil
}

// Save writes the full document atomically: to a temp file in the same
// directory, then renamed over the target. Dirty hints are irrelevant for
// a single-document store.
func (s *Store) Save(_ context.Context, snap *state.Snapshot, _ ...state.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return medledger.ErrStoreClosed
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return medledger.ErrStoreClosed
	}
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
