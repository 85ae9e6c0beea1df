// Package audithook bridges Ledger lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any concrete audit system. Callers inject a RecorderFunc adapter that
// bridges to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medchain/medledger/access"
	"github.com/medchain/medledger/audit"
	"github.com/medchain/medledger/invoice"
	"github.com/medchain/medledger/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin             = (*Extension)(nil)
	_ plugin.OnUserRegistered   = (*Extension)(nil)
	_ plugin.OnBeneficiaryAdded = (*Extension)(nil)
	_ plugin.OnConsentGranted   = (*Extension)(nil)
	_ plugin.OnConsentRevoked   = (*Extension)(nil)
	_ plugin.OnRecordAdded      = (*Extension)(nil)
	_ plugin.OnAccessRequested  = (*Extension)(nil)
	_ plugin.OnAccessResolved   = (*Extension)(nil)
	_ plugin.OnInvoiceCreated   = (*Extension)(nil)
	_ plugin.OnInvoicePaid      = (*Extension)(nil)
	_ plugin.OnTipRecorded      = (*Extension)(nil)
	_ plugin.OnEmergencyAccess  = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Identity hooks
// ──────────────────────────────────────────────────

// OnUserRegistered implements plugin.OnUserRegistered.
func (e *Extension) OnUserRegistered(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionUserRegistered, SeverityInfo, OutcomeSuccess,
		ResourceUser, "", CategoryIdentity, nil,
		"event", "user_registered",
	)
}

// OnBeneficiaryAdded implements plugin.OnBeneficiaryAdded.
func (e *Extension) OnBeneficiaryAdded(ctx context.Context, patient, beneficiary string) error {
	return e.record(ctx, ActionBeneficiaryAdded, SeverityInfo, OutcomeSuccess,
		ResourceBeneficiary, patient, CategoryIdentity, nil,
		"patient", patient,
		"beneficiary", beneficiary,
	)
}

// ──────────────────────────────────────────────────
// Consent hooks
// ──────────────────────────────────────────────────

// OnConsentGranted implements plugin.OnConsentGranted.
func (e *Extension) OnConsentGranted(ctx context.Context, patient, consumer string) error {
	return e.record(ctx, ActionConsentGranted, SeverityInfo, OutcomeSuccess,
		ResourceConsent, patient, CategoryConsent, nil,
		"patient", patient,
		"consumer", consumer,
	)
}

// OnConsentRevoked implements plugin.OnConsentRevoked.
func (e *Extension) OnConsentRevoked(ctx context.Context, patient, consumer string) error {
	return e.record(ctx, ActionConsentRevoked, SeverityWarning, OutcomeSuccess,
		ResourceConsent, patient, CategoryConsent, nil,
		"patient", patient,
		"consumer", consumer,
	)
}

// ──────────────────────────────────────────────────
// Record hooks
// ──────────────────────────────────────────────────

// OnRecordAdded implements plugin.OnRecordAdded.
func (e *Extension) OnRecordAdded(ctx context.Context, patient string, _ interface{}) error {
	return e.record(ctx, ActionRecordAdded, SeverityInfo, OutcomeSuccess,
		ResourceRecord, patient, CategoryRecords, nil,
		"patient", patient,
	)
}

// ──────────────────────────────────────────────────
// Access hooks
// ──────────────────────────────────────────────────

// OnAccessRequested implements plugin.OnAccessRequested.
func (e *Extension) OnAccessRequested(ctx context.Context, req interface{}) error {
	id, meta := accessRequestMeta(req)
	return e.record(ctx, ActionAccessRequested, SeverityInfo, OutcomeSuccess,
		ResourceAccess, id, CategoryAccess, nil, meta...)
}

// OnAccessResolved implements plugin.OnAccessResolved.
func (e *Extension) OnAccessResolved(ctx context.Context, req interface{}) error {
	id, meta := accessRequestMeta(req)
	return e.record(ctx, ActionAccessResolved, SeverityInfo, OutcomeSuccess,
		ResourceAccess, id, CategoryAccess, nil, meta...)
}

// OnEmergencyAccess implements plugin.OnEmergencyAccess.
func (e *Extension) OnEmergencyAccess(ctx context.Context, log interface{}) error {
	var id string
	meta := []any{"event", "emergency_access"}
	if entry, ok := log.(audit.EmergencyLog); ok {
		id = entry.ID.String()
		meta = append(meta,
			"doctor", entry.Doctor,
			"patient", entry.Patient,
			"reason", entry.Reason,
		)
	}
	return e.record(ctx, ActionEmergencyAccess, SeverityCritical, OutcomeSuccess,
		ResourceEmergency, id, CategoryAccess, nil, meta...)
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (e *Extension) OnInvoiceCreated(ctx context.Context, inv interface{}) error {
	id, meta := invoiceMeta(inv)
	return e.record(ctx, ActionInvoiceCreated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, id, CategoryPayment, nil, meta...)
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (e *Extension) OnInvoicePaid(ctx context.Context, inv interface{}) error {
	id, meta := invoiceMeta(inv)
	return e.record(ctx, ActionInvoicePaid, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, id, CategoryPayment, nil, meta...)
}

// OnTipRecorded implements plugin.OnTipRecorded.
func (e *Extension) OnTipRecorded(ctx context.Context, tip interface{}) error {
	var id string
	meta := []any{"event", "tip_recorded"}
	if t, ok := tip.(invoice.Tip); ok {
		id = t.ID.String()
		meta = append(meta, "from", t.From, "to", t.To, "amount", t.Amount.String())
	}
	return e.record(ctx, ActionTipRecorded, SeverityInfo, OutcomeSuccess,
		ResourceTip, id, CategoryPayment, nil, meta...)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

func accessRequestMeta(req interface{}) (string, []any) {
	r, ok := req.(*access.Request)
	if !ok {
		return "", []any{"event", "access_request"}
	}
	return r.ID.String(), []any{
		"from", r.From,
		"to", r.To,
		"status", string(r.Status),
	}
}

func invoiceMeta(inv interface{}) (string, []any) {
	i, ok := inv.(*invoice.Invoice)
	if !ok {
		return "", []any{"event", "invoice"}
	}
	return i.ID.String(), []any{
		"provider", i.Provider,
		"patient", i.Patient,
		"amount", i.Amount.String(),
		"status", string(i.Status),
	}
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
