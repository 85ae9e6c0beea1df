// Package extension provides the Forge extension adapter for the ledger.
//
// It implements the forge.Extension interface to integrate the ledger
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.medledger" or
// "medledger" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	medledger "github.com/medchain/medledger"
	"github.com/medchain/medledger/store"
	"github.com/medchain/medledger/store/file"
	"github.com/medchain/medledger/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "medledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Permissioned healthcare data authorization ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the ledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *medledger.Ledger
	store      store.Store
	ledgerOpts []medledger.Option
}

// New creates a new Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *medledger.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Pick a store when none was provided programmatically: a file store
	// when a snapshot path is configured, the memory store otherwise.
	if e.store == nil {
		if e.config.SnapshotPath != "" {
			e.store = file.New(e.config.SnapshotPath)
		} else {
			e.store = memory.New()
		}
	}

	// Build ledger options from resolved config.
	opts := e.buildLedgerOpts()

	eng := medledger.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*medledger.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("medledger: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("medledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs medledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []medledger.Option {
	opts := make([]medledger.Option, 0, len(e.ledgerOpts)+1)

	// Apply config-derived options.
	if e.config.EnforceConsentWrites {
		opts = append(opts, medledger.WithConsentEnforcedWrites(true))
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("medledger: configuration is required but not found in config files; " +
				"ensure 'extensions.medledger' or 'medledger' key exists in your config")
		}

		// Use programmatic config as-is.
		e.config = programmaticConfig
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("medledger: configuration loaded",
		forge.F("snapshot_path", e.config.SnapshotPath),
		forge.F("enforce_consent_writes", e.config.EnforceConsentWrites),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.medledger" first (namespaced pattern).
	if cm.IsSet("extensions.medledger") {
		if err := cm.Bind("extensions.medledger", &cfg); err == nil {
			e.Logger().Debug("medledger: loaded config from file",
				forge.F("key", "extensions.medledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("medledger: failed to bind extensions.medledger config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "medledger" key.
	if cm.IsSet("medledger") {
		if err := cm.Bind("medledger", &cfg); err == nil {
			e.Logger().Debug("medledger: loaded config from file",
				forge.F("key", "medledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("medledger: failed to bind medledger config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.EnforceConsentWrites {
		yamlConfig.EnforceConsentWrites = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.SnapshotPath == "" && programmaticConfig.SnapshotPath != "" {
		yamlConfig.SnapshotPath = programmaticConfig.SnapshotPath
	}

	return yamlConfig
}
