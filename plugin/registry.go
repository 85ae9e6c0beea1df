package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery so emitting an event does not require a
// type assertion per plugin per call.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit             []OnInit
	onShutdown         []OnShutdown
	onUserRegistered   []OnUserRegistered
	onBeneficiaryAdded []OnBeneficiaryAdded
	onConsentGranted   []OnConsentGranted
	onConsentRevoked   []OnConsentRevoked
	onRecordAdded      []OnRecordAdded
	onAccessRequested  []OnAccessRequested
	onAccessResolved   []OnAccessResolved
	onInvoiceCreated   []OnInvoiceCreated
	onInvoicePaid      []OnInvoicePaid
	onTipRecorded      []OnTipRecorded
	onEmergencyAccess  []OnEmergencyAccess
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnUserRegistered); ok {
		r.onUserRegistered = append(r.onUserRegistered, v)
	}
	if v, ok := p.(OnBeneficiaryAdded); ok {
		r.onBeneficiaryAdded = append(r.onBeneficiaryAdded, v)
	}
	if v, ok := p.(OnConsentGranted); ok {
		r.onConsentGranted = append(r.onConsentGranted, v)
	}
	if v, ok := p.(OnConsentRevoked); ok {
		r.onConsentRevoked = append(r.onConsentRevoked, v)
	}
	if v, ok := p.(OnRecordAdded); ok {
		r.onRecordAdded = append(r.onRecordAdded, v)
	}
	if v, ok := p.(OnAccessRequested); ok {
		r.onAccessRequested = append(r.onAccessRequested, v)
	}
	if v, ok := p.(OnAccessResolved); ok {
		r.onAccessResolved = append(r.onAccessResolved, v)
	}
	if v, ok := p.(OnInvoiceCreated); ok {
		r.onInvoiceCreated = append(r.onInvoiceCreated, v)
	}
	if v, ok := p.(OnInvoicePaid); ok {
		r.onInvoicePaid = append(r.onInvoicePaid, v)
	}
	if v, ok := p.(OnTipRecorded); ok {
		r.onTipRecorded = append(r.onTipRecorded, v)
	}
	if v, ok := p.(OnEmergencyAccess); ok {
		r.onEmergencyAccess = append(r.onEmergencyAccess, v)
	}

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitUserRegistered emits a user registered event.
func (r *Registry) EmitUserRegistered(ctx context.Context, user interface{}) {
	r.mu.RLock()
	plugins := r.onUserRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUserRegistered(ctx, user)
		}); err != nil {
			r.logger.Warn("plugin OnUserRegistered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBeneficiaryAdded emits a beneficiary added event.
func (r *Registry) EmitBeneficiaryAdded(ctx context.Context, patient, beneficiary string) {
	r.mu.RLock()
	plugins := r.onBeneficiaryAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBeneficiaryAdded(ctx, patient, beneficiary)
		}); err != nil {
			r.logger.Warn("plugin OnBeneficiaryAdded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitConsentGranted emits a consent granted event.
func (r *Registry) EmitConsentGranted(ctx context.Context, patient, consumer string) {
	r.mu.RLock()
	plugins := r.onConsentGranted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnConsentGranted(ctx, patient, consumer)
		}); err != nil {
			r.logger.Warn("plugin OnConsentGranted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitConsentRevoked emits a consent revoked event.
func (r *Registry) EmitConsentRevoked(ctx context.Context, patient, consumer string) {
	r.mu.RLock()
	plugins := r.onConsentRevoked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnConsentRevoked(ctx, patient, consumer)
		}); err != nil {
			r.logger.Warn("plugin OnConsentRevoked failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRecordAdded emits a record added event.
func (r *Registry) EmitRecordAdded(ctx context.Context, patient string, rec interface{}) {
	r.mu.RLock()
	plugins := r.onRecordAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRecordAdded(ctx, patient, rec)
		}); err != nil {
			r.logger.Warn("plugin OnRecordAdded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccessRequested emits an access requested event.
func (r *Registry) EmitAccessRequested(ctx context.Context, req interface{}) {
	r.mu.RLock()
	plugins := r.onAccessRequested
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccessRequested(ctx, req)
		}); err != nil {
			r.logger.Warn("plugin OnAccessRequested failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccessResolved emits an access resolved event.
func (r *Registry) EmitAccessResolved(ctx context.Context, req interface{}) {
	r.mu.RLock()
	plugins := r.onAccessResolved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccessResolved(ctx, req)
		}); err != nil {
			r.logger.Warn("plugin OnAccessResolved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceCreated emits an invoice created event.
func (r *Registry) EmitInvoiceCreated(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceCreated(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoicePaid emits an invoice paid event.
func (r *Registry) EmitInvoicePaid(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoicePaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoicePaid(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoicePaid failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTipRecorded emits a tip recorded event.
func (r *Registry) EmitTipRecorded(ctx context.Context, tip interface{}) {
	r.mu.RLock()
	plugins := r.onTipRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTipRecorded(ctx, tip)
		}); err != nil {
			r.logger.Warn("plugin OnTipRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEmergencyAccess emits a break-glass access event.
func (r *Registry) EmitEmergencyAccess(ctx context.Context, log interface{}) {
	r.mu.RLock()
	plugins := r.onEmergencyAccess
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEmergencyAccess(ctx, log)
		}); err != nil {
			r.logger.Warn("plugin OnEmergencyAccess failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block a ledger operation.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
