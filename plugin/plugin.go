// Package plugin provides an extensible plugin system for MedLedger.
// Plugins can hook into lifecycle events to extend functionality.
package plugin

import "context"

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Identity hooks
// ──────────────────────────────────────────────────

// OnUserRegistered is called when a new user registers.
type OnUserRegistered interface {
	Plugin
	OnUserRegistered(ctx context.Context, user interface{}) error
}

// OnBeneficiaryAdded is called when a patient designates a beneficiary.
type OnBeneficiaryAdded interface {
	Plugin
	OnBeneficiaryAdded(ctx context.Context, patient, beneficiary string) error
}

// ──────────────────────────────────────────────────
// Consent hooks
// ──────────────────────────────────────────────────

// OnConsentGranted is called when consent is granted, including grants
// cascaded from access request approval and break-glass overrides.
type OnConsentGranted interface {
	Plugin
	OnConsentGranted(ctx context.Context, patient, consumer string) error
}

// OnConsentRevoked is called when consent is revoked.
type OnConsentRevoked interface {
	Plugin
	OnConsentRevoked(ctx context.Context, patient, consumer string) error
}

// ──────────────────────────────────────────────────
// Record hooks
// ──────────────────────────────────────────────────

// OnRecordAdded is called when a health record reference is appended.
type OnRecordAdded interface {
	Plugin
	OnRecordAdded(ctx context.Context, patient string, rec interface{}) error
}

// ──────────────────────────────────────────────────
// Access request hooks
// ──────────────────────────────────────────────────

// OnAccessRequested is called when a doctor files an access request.
type OnAccessRequested interface {
	Plugin
	OnAccessRequested(ctx context.Context, req interface{}) error
}

// OnAccessResolved is called when an access request is approved or rejected.
type OnAccessResolved interface {
	Plugin
	OnAccessResolved(ctx context.Context, req interface{}) error
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated is called when an invoice is created.
type OnInvoiceCreated interface {
	Plugin
	OnInvoiceCreated(ctx context.Context, inv interface{}) error
}

// OnInvoicePaid is called when an invoice is paid.
type OnInvoicePaid interface {
	Plugin
	OnInvoicePaid(ctx context.Context, inv interface{}) error
}

// OnTipRecorded is called when a tip is recorded.
type OnTipRecorded interface {
	Plugin
	OnTipRecorded(ctx context.Context, tip interface{}) error
}

// ──────────────────────────────────────────────────
// Emergency access hooks
// ──────────────────────────────────────────────────

// OnEmergencyAccess is called when a break-glass access is performed.
type OnEmergencyAccess interface {
	Plugin
	OnEmergencyAccess(ctx context.Context, log interface{}) error
}
