package medledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/medchain/medledger/access"
	"github.com/medchain/medledger/audit"
	"github.com/medchain/medledger/id"
	"github.com/medchain/medledger/identity"
	"github.com/medchain/medledger/invoice"
	"github.com/medchain/medledger/plugin"
	"github.com/medchain/medledger/record"
	"github.com/medchain/medledger/state"
	"github.com/medchain/medledger/store"
	"github.com/medchain/medledger/types"
)

// Ledger is the main authorization ledger engine.
//
// The engine keeps the authoritative snapshot resident in memory and
// serializes every mutating operation behind a single writer lock:
// validate, mutate, append an audit transaction, persist. Reads share a
// read lock and never observe a partially-applied operation.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	mu    sync.RWMutex
	state *state.Snapshot

	// Configuration
	now                  func() time.Time
	enforceConsentWrites bool
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		state:   state.New(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source used for record and audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithConsentEnforcedWrites controls whether a doctor appending a health
// record for a patient they are neither delegate nor owner of must hold
// consent. The default is false: any registered doctor may write.
func WithConsentEnforcedWrites(enforce bool) Option {
	return func(l *Ledger) {
		l.enforceConsentWrites = enforce
	}
}

// Start migrates the store and loads the resident snapshot.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	snap, err := l.store.Load(ctx)
	if err != nil {
		return err
	}
	snap.Init()

	l.mu.Lock()
	l.state = snap
	l.mu.Unlock()

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("medledger started",
		"users", len(snap.Users),
		"transactions", len(snap.Transactions),
	)

	return nil
}

// Stop persists the final snapshot and shuts down the Ledger.
func (l *Ledger) Stop() error {
	ctx := context.Background()

	l.mu.Lock()
	err := l.store.Save(ctx, l.state)
	l.mu.Unlock()
	if err != nil {
		l.logger.Error("failed to persist final snapshot", "error", err)
	}

	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Identity
// ──────────────────────────────────────────────────

// Register registers an address with a self-service role (patient or
// doctor). Registering an already-registered address fails, as role
// reassignment is disallowed.
func (l *Ledger) Register(ctx context.Context, address, role string) (*identity.User, error) {
	addr := identity.Normalize(address)
	if addr == "" {
		return nil, ValidationError{Field: "address", Message: "must not be empty"}
	}

	parsed, err := identity.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	l.mu.Lock()
	if _, exists := l.state.Users[addr]; exists {
		l.mu.Unlock()
		return nil, ErrAlreadyRegistered
	}

	now := l.now().UTC()
	user := &identity.User{
		Entity:     types.Entity{CreatedAt: now, UpdatedAt: now},
		Address:    addr,
		Role:       parsed,
		Registered: true,
	}
	l.state.Users[addr] = user

	l.logTransaction(addr, "", audit.ActionRegister, map[string]string{
		"role": parsed.String(),
	})

	persistErr := l.persist(ctx, state.CollectionUsers, state.CollectionTransactions)
	registered := *user
	l.mu.Unlock()

	if persistErr != nil {
		return nil, persistErr
	}

	l.plugins.EmitUserRegistered(ctx, &registered)
	return &registered, nil
}

// IsRegistered reports whether the address is registered.
func (l *Ledger) IsRegistered(_ context.Context, address string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u, ok := l.state.Users[identity.Normalize(address)]
	return ok && u.Registered
}

// GetRole returns the role of the address. Unregistered addresses have
// RoleNone.
func (l *Ledger) GetRole(_ context.Context, address string) identity.Role {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if u, ok := l.state.Users[identity.Normalize(address)]; ok {
		return u.Role
	}
	return identity.RoleNone
}

// AddBeneficiary designates a delegate for the patient. A patient has at
// most one beneficiary; later calls overwrite the slot.
func (l *Ledger) AddBeneficiary(ctx context.Context, patient, beneficiary string) error {
	pat := identity.Normalize(patient)
	ben := identity.Normalize(beneficiary)
	if ben == "" {
		return ValidationError{Field: "beneficiary", Message: "must not be empty"}
	}

	l.mu.Lock()
	if !l.state.Users[pat].IsPatient() {
		l.mu.Unlock()
		return ErrUnauthorized
	}

	l.state.Beneficiaries[pat] = ben

	l.logTransaction(pat, ben, audit.ActionAddBeneficiary, nil)

	persistErr := l.persist(ctx, state.CollectionBeneficiaries, state.CollectionTransactions)
	l.mu.Unlock()

	if persistErr != nil {
		return persistErr
	}

	l.plugins.EmitBeneficiaryAdded(ctx, pat, ben)
	return nil
}

// Beneficiary returns the patient's delegate address, if any.
func (l *Ledger) Beneficiary(_ context.Context, patient string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ben, ok := l.state.Beneficiaries[identity.Normalize(patient)]
	return ben, ok
}

// ──────────────────────────────────────────────────
// Consent
// ──────────────────────────────────────────────────

// GrantConsent records a consent grant from patient to consumer.
// Granting an already-granted pair succeeds with no additional semantic
// effect beyond the audit entry.
func (l *Ledger) GrantConsent(ctx context.Context, patient, consumer string) error {
	return l.setConsent(ctx, patient, consumer, true)
}

// RevokeConsent records a consent revocation. Revoking an absent or
// already-revoked pair is a no-op write, not an error.
func (l *Ledger) RevokeConsent(ctx context.Context, patient, consumer string) error {
	return l.setConsent(ctx, patient, consumer, false)
}

func (l *Ledger) setConsent(ctx context.Context, patient, consumer string, granted bool) error {
	pat := identity.Normalize(patient)
	con := identity.Normalize(consumer)
	if pat == "" || con == "" {
		return ValidationError{Field: "address", Message: "must not be empty"}
	}

	action := audit.ActionGrantConsent
	if !granted {
		action = audit.ActionRevokeConsent
	}

	l.mu.Lock()
	l.state.Consent.Set(pat, con, granted)
	l.logTransaction(pat, con, action, nil)
	persistErr := l.persist(ctx, state.CollectionConsent, state.CollectionTransactions)
	l.mu.Unlock()

	if persistErr != nil {
		return persistErr
	}

	if granted {
		l.plugins.EmitConsentGranted(ctx, pat, con)
	} else {
		l.plugins.EmitConsentRevoked(ctx, pat, con)
	}
	return nil
}

// HasConsent reports whether the most recent grant/revoke recorded for
// the pair is a grant. The default is false.
func (l *Ledger) HasConsent(_ context.Context, patient, consumer string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.Consent.Granted(identity.Normalize(patient), identity.Normalize(consumer))
}

// ──────────────────────────────────────────────────
// Health records
// ──────────────────────────────────────────────────

// AddHealthRecord appends a record reference for the patient. The sender
// must be the patient themself, the patient's beneficiary, or a
// registered doctor.
func (l *Ledger) AddHealthRecord(ctx context.Context, sender, patient, dataHash, recordType string) (*record.HealthRecord, error) {
	snd := identity.Normalize(sender)
	pat := identity.Normalize(patient)
	if dataHash == "" {
		return nil, ValidationError{Field: "dataHash", Message: "must not be empty"}
	}

	l.mu.Lock()
	if !l.canWriteRecord(snd, pat) {
		l.mu.Unlock()
		return nil, ErrUnauthorized
	}

	rec := record.HealthRecord{
		DataHash:   dataHash,
		Timestamp:  l.now().Unix(),
		RecordType: recordType,
	}
	l.state.Records[pat] = append(l.state.Records[pat], rec)

	l.logTransaction(snd, pat, audit.ActionAddRecord, map[string]string{
		"data_hash":   dataHash,
		"record_type": recordType,
	})

	persistErr := l.persist(ctx, state.CollectionRecords, state.CollectionTransactions)
	l.mu.Unlock()

	if persistErr != nil {
		return nil, persistErr
	}

	l.plugins.EmitRecordAdded(ctx, pat, rec)
	return &rec, nil
}

// canWriteRecord is called with the writer lock held.
func (l *Ledger) canWriteRecord(sender, patient string) bool {
	if sender == "" {
		return false
	}
	if sender == patient {
		return l.state.Users[sender].IsPatient()
	}
	if l.state.Beneficiaries[patient] == sender {
		return true
	}
	if !l.state.Users[sender].IsDoctor() {
		return false
	}
	if l.enforceConsentWrites {
		return l.state.Consent.Granted(patient, sender)
	}
	return true
}

// RecordCount returns the number of records for the patient.
func (l *Ledger) RecordCount(_ context.Context, patient string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.state.Records[identity.Normalize(patient)])
}

// HealthRecordAt returns the record at index, which must be within
// [0, RecordCount).
func (l *Ledger) HealthRecordAt(_ context.Context, patient string, index int) (record.HealthRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	recs := l.state.Records[identity.Normalize(patient)]
	if index < 0 || index >= len(recs) {
		return record.HealthRecord{}, ErrIndexOutOfRange
	}
	return recs[index], nil
}

// AllRecords returns all records for the patient in append order.
func (l *Ledger) AllRecords(_ context.Context, patient string) []record.HealthRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]record.HealthRecord(nil), l.state.Records[identity.Normalize(patient)]...)
}

// ──────────────────────────────────────────────────
// Access requests
// ──────────────────────────────────────────────────

// RequestAccess creates a pending access request from a registered doctor
// to a registered patient.
func (l *Ledger) RequestAccess(ctx context.Context, from, to string) (*access.Request, error) {
	doc := identity.Normalize(from)
	pat := identity.Normalize(to)

	l.mu.Lock()
	if !l.state.Users[doc].IsDoctor() || !l.state.Users[pat].IsPatient() {
		l.mu.Unlock()
		return nil, ErrUnauthorized
	}

	req := &access.Request{
		ID:        id.NewAccessRequestID(),
		From:      doc,
		To:        pat,
		Status:    access.StatusPending,
		Timestamp: l.now().Unix(),
	}
	l.state.AccessRequests = append(l.state.AccessRequests, req)

	l.logTransaction(doc, pat, audit.ActionRequestAccess, map[string]string{
		"request_id": req.ID.String(),
	})

	persistErr := l.persist(ctx, state.CollectionAccessRequests, state.CollectionTransactions)
	created := *req
	l.mu.Unlock()

	if persistErr != nil {
		return nil, persistErr
	}

	l.plugins.EmitAccessRequested(ctx, &created)
	return &created, nil
}

// AccessRequestsFor returns all requests where user is requester or target.
func (l *Ledger) AccessRequestsFor(_ context.Context, user string) []*access.Request {
	addr := identity.Normalize(user)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []*access.Request
	for _, req := range l.state.AccessRequests {
		if req.Involves(addr) {
			copied := *req
			result = append(result, &copied)
		}
	}
	return result
}

// RespondToAccessRequest resolves a pending request. Approval additionally
// grants consent from the patient to the requesting doctor; the status
// change and the grant are applied atomically under the writer lock.
func (l *Ledger) RespondToAccessRequest(ctx context.Context, requestID, resolution string) error {
	status, err := access.ParseResolution(resolution)
	if err != nil {
		return ValidationError{Field: "status", Message: "must be approved or rejected"}
	}

	l.mu.Lock()
	req := l.state.FindAccessRequest(requestID)
	if req == nil {
		l.mu.Unlock()
		return ErrRequestNotFound
	}
	if req.Resolved() {
		l.mu.Unlock()
		return ErrRequestResolved
	}

	req.Status = status
	dirty := []state.Collection{state.CollectionAccessRequests, state.CollectionTransactions}
	if status == access.StatusApproved {
		l.state.Consent.Set(req.To, req.From, true)
		dirty = append(dirty, state.CollectionConsent)
	}

	l.logTransaction(req.To, req.From, audit.ActionResolveAccess, map[string]string{
		"request_id": requestID,
		"status":     string(status),
	})

	persistErr := l.persist(ctx, dirty...)
	resolved := *req
	l.mu.Unlock()

	if persistErr != nil {
		return persistErr
	}

	l.plugins.EmitAccessResolved(ctx, &resolved)
	if status == access.StatusApproved {
		l.plugins.EmitConsentGranted(ctx, resolved.To, resolved.From)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Invoices and tips
// ──────────────────────────────────────────────────

// CreateInvoice creates a pending invoice from provider to patient.
func (l *Ledger) CreateInvoice(ctx context.Context, provider, patient, amount, service string) (*invoice.Invoice, error) {
	amt, err := types.ParseAmount(amount)
	if err != nil {
		return nil, ValidationError{Field: "amount", Message: err.Error()}
	}

	prov := identity.Normalize(provider)
	pat := identity.Normalize(patient)

	l.mu.Lock()
	inv := &invoice.Invoice{
		ID:        id.NewInvoiceID(),
		Provider:  prov,
		Patient:   pat,
		Amount:    amt,
		Service:   service,
		Status:    invoice.StatusPending,
		Timestamp: l.now().Unix(),
	}
	l.state.Invoices = append(l.state.Invoices, inv)

	l.logTransaction(prov, pat, audit.ActionCreateInvoice, map[string]string{
		"invoice_id": inv.ID.String(),
		"amount":     amt.String(),
		"service":    service,
	})

	persistErr := l.persist(ctx, state.CollectionInvoices, state.CollectionTransactions)
	created := *inv
	l.mu.Unlock()

	if persistErr != nil {
		return nil, persistErr
	}

	l.plugins.EmitInvoiceCreated(ctx, &created)
	return &created, nil
}

// InvoicesFor returns all invoices where user is provider or patient.
func (l *Ledger) InvoicesFor(_ context.Context, user string) []*invoice.Invoice {
	addr := identity.Normalize(user)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []*invoice.Invoice
	for _, inv := range l.state.Invoices {
		if inv.Involves(addr) {
			copied := *inv
			result = append(result, &copied)
		}
	}
	return result
}

// PayInvoice marks the invoice paid and assigns a settlement reference.
// Paid is terminal: paying twice fails with ErrAlreadyPaid.
func (l *Ledger) PayInvoice(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	l.mu.Lock()
	inv := l.state.FindInvoice(invoiceID)
	if inv == nil {
		l.mu.Unlock()
		return nil, ErrInvoiceNotFound
	}
	if inv.Status == invoice.StatusPaid {
		l.mu.Unlock()
		return nil, ErrAlreadyPaid
	}

	inv.Status = invoice.StatusPaid
	inv.SettlementRef = id.NewPaymentID().String()

	l.logTransaction(inv.Patient, inv.Provider, audit.ActionPayInvoice, map[string]string{
		"invoice_id":     invoiceID,
		"amount":         inv.Amount.String(),
		"settlement_ref": inv.SettlementRef,
	})

	persistErr := l.persist(ctx, state.CollectionInvoices, state.CollectionTransactions)
	paid := *inv
	l.mu.Unlock()

	if persistErr != nil {
		return nil, persistErr
	}

	l.plugins.EmitInvoicePaid(ctx, &paid)
	return &paid, nil
}

// Tip records a voluntary payment note to a registered recipient.
func (l *Ledger) Tip(ctx context.Context, from, to, amount, message string) (*invoice.Tip, error) {
	amt, err := types.ParseAmount(amount)
	if err != nil {
		return nil, ValidationError{Field: "amount", Message: err.Error()}
	}

	src := identity.Normalize(from)
	dst := identity.Normalize(to)

	l.mu.Lock()
	if u, ok := l.state.Users[dst]; !ok || !u.Registered {
		l.mu.Unlock()
		return nil, ErrUnauthorized
	}

	tip := invoice.Tip{
		ID:        id.NewTipID(),
		From:      src,
		To:        dst,
		Amount:    amt,
		Message:   message,
		Timestamp: l.now().Unix(),
	}
	l.state.Tips = append(l.state.Tips, tip)

	l.logTransaction(src, dst, audit.ActionTip, map[string]string{
		"tip_id": tip.ID.String(),
		"amount": amt.String(),
	})

	persistErr := l.persist(ctx, state.CollectionTips, state.CollectionTransactions)
	l.mu.Unlock()

	if persistErr != nil {
		return nil, persistErr
	}

	l.plugins.EmitTipRecorded(ctx, tip)
	return &tip, nil
}

// TipsFor returns all tips where user is sender or recipient.
func (l *Ledger) TipsFor(_ context.Context, user string) []invoice.Tip {
	addr := identity.Normalize(user)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []invoice.Tip
	for _, tip := range l.state.Tips {
		if tip.From == addr || tip.To == addr {
			result = append(result, tip)
		}
	}
	return result
}

// ──────────────────────────────────────────────────
// Emergency access
// ──────────────────────────────────────────────────

// BreakGlassAccess grants the doctor consent to the patient's records
// unconditionally, overwriting any prior revocation, and writes both an
// audit transaction and a permanent emergency log entry.
func (l *Ledger) BreakGlassAccess(ctx context.Context, doctor, patient, reason string) (*audit.EmergencyLog, error) {
	doc := identity.Normalize(doctor)
	pat := identity.Normalize(patient)
	if reason == "" {
		return nil, ValidationError{Field: "reason", Message: "must not be empty"}
	}

	l.mu.Lock()
	if !l.state.Users[doc].IsDoctor() {
		l.mu.Unlock()
		return nil, ErrUnauthorized
	}

	l.state.Consent.Set(pat, doc, true)

	entry := audit.EmergencyLog{
		ID:        id.NewEmergencyLogID(),
		Doctor:    doc,
		Patient:   pat,
		Reason:    reason,
		Timestamp: l.now().Unix(),
	}
	l.state.EmergencyLogs = append(l.state.EmergencyLogs, entry)

	l.logTransaction(doc, pat, audit.ActionEmergencyAccess, map[string]string{
		"emergency_id": entry.ID.String(),
		"reason":       reason,
	})

	persistErr := l.persist(ctx,
		state.CollectionConsent,
		state.CollectionEmergencyLogs,
		state.CollectionTransactions,
	)
	l.mu.Unlock()

	if persistErr != nil {
		return nil, persistErr
	}

	l.logger.Warn("break-glass access",
		"doctor", doc,
		"patient", pat,
		"reason", reason,
	)

	l.plugins.EmitEmergencyAccess(ctx, entry)
	l.plugins.EmitConsentGranted(ctx, pat, doc)
	return &entry, nil
}

// EmergencyLogs returns every break-glass entry in append order.
func (l *Ledger) EmergencyLogs(_ context.Context) []audit.EmergencyLog {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]audit.EmergencyLog(nil), l.state.EmergencyLogs...)
}

// ──────────────────────────────────────────────────
// Audit trail
// ──────────────────────────────────────────────────

// Transactions returns the audit trail, newest first. A non-empty address
// filters to entries where the address is source or target.
func (l *Ledger) Transactions(_ context.Context, address string) []audit.Transaction {
	addr := identity.Normalize(address)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if addr == "" {
		return append([]audit.Transaction(nil), l.state.Transactions...)
	}

	var result []audit.Transaction
	for _, tx := range l.state.Transactions {
		if tx.Involves(addr) {
			result = append(result, tx)
		}
	}
	return result
}

// logTransaction prepends an audit entry. Called with the writer lock held.
func (l *Ledger) logTransaction(from, to, action string, data map[string]string) {
	tx := audit.Transaction{
		Hash:      id.NewTransactionID(),
		From:      from,
		To:        to,
		Action:    action,
		Data:      data,
		Timestamp: l.now().Unix(),
		Status:    audit.StatusSuccess,
	}
	l.state.Transactions = append([]audit.Transaction{tx}, l.state.Transactions...)
}

// persist saves the snapshot. Called with the writer lock held. On failure
// the in-memory state remains authoritative; the error is reported to the
// caller and availability is favored over strict durability.
func (l *Ledger) persist(ctx context.Context, dirty ...state.Collection) error {
	if err := l.store.Save(ctx, l.state, dirty...); err != nil {
		l.logger.Error("failed to persist snapshot", "error", err)
		return err
	}
	return nil
}
