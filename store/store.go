package store

import (
	"context"

	"github.com/medchain/medledger/state"
)

// Store persists the ledger snapshot document.
//
// The engine keeps the authoritative snapshot resident in memory; a Store
// only has to reload it at startup and write mutations back. Save receives
// the collections touched by the operation so database-backed stores can
// rewrite just those collections instead of the whole document. A Save with
// no dirty hints writes everything.
type Store interface {
	// Load reads the full snapshot. A store with no prior data returns an
	// empty snapshot, not an error.
	Load(ctx context.Context) (*state.Snapshot, error)

	// Save writes the snapshot. The dirty hints name the collections that
	// changed since the previous Save; stores may ignore them and write
	// the full document.
	Save(ctx context.Context, snap *state.Snapshot, dirty ...state.Collection) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
