package extension

import (
	medledger "github.com/medchain/medledger"
	"github.com/medchain/medledger/plugin"
	"github.com/medchain/medledger/store"
)

// Option configures the Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedgerOption passes a medledger.Option through to the underlying engine.
func WithLedgerOption(opt medledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, medledger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithSnapshotPath sets the JSON snapshot file path used when no store
// was provided programmatically.
func WithSnapshotPath(path string) Option {
	return func(e *Extension) { e.config.SnapshotPath = path }
}

// WithEnforceConsentWrites requires an active consent edge before a
// doctor can append health records for a patient.
func WithEnforceConsentWrites() Option {
	return func(e *Extension) { e.config.EnforceConsentWrites = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
