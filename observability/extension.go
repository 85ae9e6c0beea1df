// Package observability provides a metrics extension for the Ledger that
// records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/medchain/medledger/access"
	"github.com/medchain/medledger/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnUserRegistered   = (*MetricsExtension)(nil)
	_ plugin.OnBeneficiaryAdded = (*MetricsExtension)(nil)
	_ plugin.OnConsentGranted   = (*MetricsExtension)(nil)
	_ plugin.OnConsentRevoked   = (*MetricsExtension)(nil)
	_ plugin.OnRecordAdded      = (*MetricsExtension)(nil)
	_ plugin.OnAccessRequested  = (*MetricsExtension)(nil)
	_ plugin.OnAccessResolved   = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceCreated   = (*MetricsExtension)(nil)
	_ plugin.OnInvoicePaid      = (*MetricsExtension)(nil)
	_ plugin.OnTipRecorded      = (*MetricsExtension)(nil)
	_ plugin.OnEmergencyAccess  = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Ledger plugin to automatically track authorization metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Identity metrics
	UsersRegistered    Counter
	BeneficiariesAdded Counter

	// Consent metrics
	ConsentGranted Counter
	ConsentRevoked Counter

	// Record metrics
	RecordsAdded Counter

	// Access metrics
	AccessRequested Counter
	AccessResolved  Counter
	EmergencyAccess Counter

	// Billing metrics
	InvoicesCreated Counter
	InvoicesPaid    Counter
	TipsRecorded    Counter

	// ResolutionLatency observes the seconds between an access request
	// being created and the patient resolving it.
	ResolutionLatency Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Identity metrics
		UsersRegistered:    factory.Counter("medledger.user.registered"),
		BeneficiariesAdded: factory.Counter("medledger.beneficiary.added"),

		// Consent metrics
		ConsentGranted: factory.Counter("medledger.consent.granted"),
		ConsentRevoked: factory.Counter("medledger.consent.revoked"),

		// Record metrics
		RecordsAdded: factory.Counter("medledger.record.added"),

		// Access metrics
		AccessRequested: factory.Counter("medledger.access.requested"),
		AccessResolved:  factory.Counter("medledger.access.resolved"),
		EmergencyAccess: factory.Counter("medledger.emergency.access"),

		// Billing metrics
		InvoicesCreated: factory.Counter("medledger.invoice.created"),
		InvoicesPaid:    factory.Counter("medledger.invoice.paid"),
		TipsRecorded:    factory.Counter("medledger.tip.recorded"),

		ResolutionLatency: factory.Histogram("medledger.access.resolution_seconds"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Identity lifecycle hooks
// ──────────────────────────────────────────────────

// OnUserRegistered implements plugin.OnUserRegistered.
func (m *MetricsExtension) OnUserRegistered(_ context.Context, _ interface{}) error {
	m.UsersRegistered.Inc()
	return nil
}

// OnBeneficiaryAdded implements plugin.OnBeneficiaryAdded.
func (m *MetricsExtension) OnBeneficiaryAdded(_ context.Context, _, _ string) error {
	m.BeneficiariesAdded.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Consent lifecycle hooks
// ──────────────────────────────────────────────────

// OnConsentGranted implements plugin.OnConsentGranted.
func (m *MetricsExtension) OnConsentGranted(_ context.Context, _, _ string) error {
	m.ConsentGranted.Inc()
	return nil
}

// OnConsentRevoked implements plugin.OnConsentRevoked.
func (m *MetricsExtension) OnConsentRevoked(_ context.Context, _, _ string) error {
	m.ConsentRevoked.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Record lifecycle hooks
// ──────────────────────────────────────────────────

// OnRecordAdded implements plugin.OnRecordAdded.
func (m *MetricsExtension) OnRecordAdded(_ context.Context, _ string, _ interface{}) error {
	m.RecordsAdded.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Access lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccessRequested implements plugin.OnAccessRequested.
func (m *MetricsExtension) OnAccessRequested(_ context.Context, _ interface{}) error {
	m.AccessRequested.Inc()
	return nil
}

// OnAccessResolved implements plugin.OnAccessResolved.
func (m *MetricsExtension) OnAccessResolved(_ context.Context, req interface{}) error {
	m.AccessResolved.Inc()
	if r, ok := req.(*access.Request); ok {
		elapsed := time.Now().Unix() - r.Timestamp
		if elapsed >= 0 {
			m.ResolutionLatency.Observe(float64(elapsed))
		}
	}
	return nil
}

// OnEmergencyAccess implements plugin.OnEmergencyAccess.
func (m *MetricsExtension) OnEmergencyAccess(_ context.Context, _ interface{}) error {
	m.EmergencyAccess.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Billing lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (m *MetricsExtension) OnInvoiceCreated(_ context.Context, _ interface{}) error {
	m.InvoicesCreated.Inc()
	return nil
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (m *MetricsExtension) OnInvoicePaid(_ context.Context, _ interface{}) error {
	m.InvoicesPaid.Inc()
	return nil
}

// OnTipRecorded implements plugin.OnTipRecorded.
func (m *MetricsExtension) OnTipRecorded(_ context.Context, _ interface{}) error {
	m.TipsRecorded.Inc()
	return nil
}
