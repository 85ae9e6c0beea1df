// Package memory provides an in-memory Store for tests and development.
package memory

import (
	"context"
	"sync"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/state"
)

type Store struct {
	mu sync.RWMutex

	snap   *state.Snapshot
	closed bool
}

func New() *Store {
	return &Store{
		snap: state.New(),
	}
}

func (s *Store) Load(_ context.Context) (*state.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, medledger.ErrStoreClosed
	}
	return s.snap.Clone(), nil
}

func (s *Store) Save(_ context.Context, snap *state.Snapshot, _ ...state.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return medledger.ErrStoreClosed
	}
	// The engine mutates its resident snapshot after Save returns, so keep
	// an independent copy.
	s.snap = snap.Clone()
	return nil
}

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return medledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
