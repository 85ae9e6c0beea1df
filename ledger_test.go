package medledger_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/access"
	"github.com/medchain/medledger/audit"
	"github.com/medchain/medledger/identity"
	"github.com/medchain/medledger/invoice"
	"github.com/medchain/medledger/store/memory"
)

func newTestLedger(t *testing.T, opts ...medledger.Option) *medledger.Ledger {
	t.Helper()

	l := medledger.New(memory.New(), opts...)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := l.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return l
}

func TestRegister(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	u, err := l.Register(ctx, "0xAlice", "patient")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.Address != "0xalice" {
		t.Errorf("Address = %q, want normalized %q", u.Address, "0xalice")
	}
	if u.Role != identity.RolePatient {
		t.Errorf("Role = %q, want %q", u.Role, identity.RolePatient)
	}
	if u.CreatedAt.IsZero() || !u.UpdatedAt.Equal(u.CreatedAt) {
		t.Errorf("entity timestamps = %v/%v, want equal non-zero", u.CreatedAt, u.UpdatedAt)
	}

	t.Run("duplicate fails regardless of case", func(t *testing.T) {
		if _, err := l.Register(ctx, "0xALICE", "doctor"); !errors.Is(err, medledger.ErrAlreadyRegistered) {
			t.Errorf("error = %v, want ErrAlreadyRegistered", err)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		if _, err := l.Register(ctx, "0xmallory", "admin"); !errors.Is(err, medledger.ErrInvalidRole) {
			t.Errorf("error = %v, want ErrInvalidRole", err)
		}
	})

	t.Run("empty address", func(t *testing.T) {
		_, err := l.Register(ctx, "  ", "patient")
		var ve medledger.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})

	t.Run("lookups normalize case", func(t *testing.T) {
		if !l.IsRegistered(ctx, "0xAlice") {
			t.Error("IsRegistered(mixed case) = false, want true")
		}
		if got := l.GetRole(ctx, "0XALICE"); got != identity.RolePatient {
			t.Errorf("GetRole = %q, want %q", got, identity.RolePatient)
		}
	})

	t.Run("unregistered has no role", func(t *testing.T) {
		if l.IsRegistered(ctx, "0xnobody") {
			t.Error("IsRegistered(unknown) = true, want false")
		}
		if got := l.GetRole(ctx, "0xnobody"); got != identity.RoleNone {
			t.Errorf("GetRole(unknown) = %q, want %q", got, identity.RoleNone)
		}
	})
}

func TestBeneficiary(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")

	if err := l.AddBeneficiary(ctx, "0xpat", "0xCousin"); err != nil {
		t.Fatalf("AddBeneficiary() error = %v", err)
	}
	if ben, ok := l.Beneficiary(ctx, "0xpat"); !ok || ben != "0xcousin" {
		t.Errorf("Beneficiary = %q, %v; want %q, true", ben, ok, "0xcousin")
	}

	t.Run("slot is overwritten", func(t *testing.T) {
		if err := l.AddBeneficiary(ctx, "0xpat", "0xsibling"); err != nil {
			t.Fatalf("AddBeneficiary() error = %v", err)
		}
		if ben, _ := l.Beneficiary(ctx, "0xpat"); ben != "0xsibling" {
			t.Errorf("Beneficiary = %q, want %q", ben, "0xsibling")
		}
	})

	t.Run("doctor cannot designate", func(t *testing.T) {
		if err := l.AddBeneficiary(ctx, "0xdoc", "0xcousin"); !errors.Is(err, medledger.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("unregistered cannot designate", func(t *testing.T) {
		if err := l.AddBeneficiary(ctx, "0xnobody", "0xcousin"); !errors.Is(err, medledger.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestConsentLifecycle(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if l.HasConsent(ctx, "0xpat", "0xdoc") {
		t.Error("HasConsent before any grant = true, want false")
	}

	if err := l.GrantConsent(ctx, "0xpat", "0xdoc"); err != nil {
		t.Fatalf("GrantConsent() error = %v", err)
	}
	if !l.HasConsent(ctx, "0xpat", "0xdoc") {
		t.Error("HasConsent after grant = false, want true")
	}

	if err := l.RevokeConsent(ctx, "0xpat", "0xdoc"); err != nil {
		t.Fatalf("RevokeConsent() error = %v", err)
	}
	if l.HasConsent(ctx, "0xpat", "0xdoc") {
		t.Error("HasConsent after revoke = true, want false")
	}

	t.Run("revoke without grant is a no-op", func(t *testing.T) {
		if err := l.RevokeConsent(ctx, "0xother", "0xdoc"); err != nil {
			t.Errorf("RevokeConsent() error = %v, want nil", err)
		}
		if l.HasConsent(ctx, "0xother", "0xdoc") {
			t.Error("HasConsent = true, want false")
		}
	})

	t.Run("regrant after revoke", func(t *testing.T) {
		if err := l.GrantConsent(ctx, "0xpat", "0xdoc"); err != nil {
			t.Fatalf("GrantConsent() error = %v", err)
		}
		if !l.HasConsent(ctx, "0xpat", "0xdoc") {
			t.Error("HasConsent after regrant = false, want true")
		}
	})

	t.Run("every call is audited", func(t *testing.T) {
		var grants, revokes int
		for _, tx := range l.Transactions(ctx, "") {
			switch tx.Action {
			case audit.ActionGrantConsent:
				grants++
			case audit.ActionRevokeConsent:
				revokes++
			}
		}
		if grants != 2 || revokes != 2 {
			t.Errorf("audited grants=%d revokes=%d, want 2 and 2", grants, revokes)
		}
	})
}

func TestAddHealthRecord(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")

	t.Run("patient writes own record", func(t *testing.T) {
		rec, err := l.AddHealthRecord(ctx, "0xpat", "0xpat", "QmHash1", "lab-result")
		if err != nil {
			t.Fatalf("AddHealthRecord() error = %v", err)
		}
		if rec.DataHash != "QmHash1" || rec.RecordType != "lab-result" {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("unregistered sender is rejected", func(t *testing.T) {
		if _, err := l.AddHealthRecord(ctx, "0xghost", "0xpat", "QmHash2", ""); !errors.Is(err, medledger.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("beneficiary writes for patient", func(t *testing.T) {
		if err := l.AddBeneficiary(ctx, "0xpat", "0xcousin"); err != nil {
			t.Fatal(err)
		}
		if _, err := l.AddHealthRecord(ctx, "0xcousin", "0xpat", "QmHash3", "scan"); err != nil {
			t.Errorf("AddHealthRecord() by beneficiary error = %v", err)
		}
	})

	t.Run("registered doctor writes", func(t *testing.T) {
		if _, err := l.AddHealthRecord(ctx, "0xdoc", "0xpat", "QmHash4", "prescription"); err != nil {
			t.Errorf("AddHealthRecord() by doctor error = %v", err)
		}
	})

	t.Run("empty hash is rejected", func(t *testing.T) {
		_, err := l.AddHealthRecord(ctx, "0xpat", "0xpat", "", "lab-result")
		var ve medledger.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})

	t.Run("reads", func(t *testing.T) {
		if got := l.RecordCount(ctx, "0xpat"); got != 3 {
			t.Fatalf("RecordCount = %d, want 3", got)
		}
		rec, err := l.HealthRecordAt(ctx, "0xpat", 0)
		if err != nil {
			t.Fatalf("HealthRecordAt(0) error = %v", err)
		}
		if rec.DataHash != "QmHash1" {
			t.Errorf("first record hash = %q, want QmHash1", rec.DataHash)
		}
		if _, err := l.HealthRecordAt(ctx, "0xpat", 3); !errors.Is(err, medledger.ErrIndexOutOfRange) {
			t.Errorf("HealthRecordAt(3) error = %v, want ErrIndexOutOfRange", err)
		}
		if _, err := l.HealthRecordAt(ctx, "0xpat", -1); !errors.Is(err, medledger.ErrIndexOutOfRange) {
			t.Errorf("HealthRecordAt(-1) error = %v, want ErrIndexOutOfRange", err)
		}
		all := l.AllRecords(ctx, "0xpat")
		if len(all) != 3 || all[2].DataHash != "QmHash4" {
			t.Errorf("AllRecords = %+v, want 3 records in append order", all)
		}
	})
}

func TestConsentEnforcedWrites(t *testing.T) {
	l := newTestLedger(t, medledger.WithConsentEnforcedWrites(true))
	ctx := context.Background()

	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")

	if _, err := l.AddHealthRecord(ctx, "0xdoc", "0xpat", "QmHash", ""); !errors.Is(err, medledger.ErrUnauthorized) {
		t.Errorf("write without consent error = %v, want ErrUnauthorized", err)
	}

	if err := l.GrantConsent(ctx, "0xpat", "0xdoc"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddHealthRecord(ctx, "0xdoc", "0xpat", "QmHash", ""); err != nil {
		t.Errorf("write with consent error = %v", err)
	}
}

func TestAccessRequestFlow(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")

	t.Run("only doctor to patient", func(t *testing.T) {
		if _, err := l.RequestAccess(ctx, "0xpat", "0xdoc"); !errors.Is(err, medledger.ErrUnauthorized) {
			t.Errorf("patient requesting error = %v, want ErrUnauthorized", err)
		}
		if _, err := l.RequestAccess(ctx, "0xdoc", "0xghost"); !errors.Is(err, medledger.ErrUnauthorized) {
			t.Errorf("targeting unregistered error = %v, want ErrUnauthorized", err)
		}
	})

	req, err := l.RequestAccess(ctx, "0xDoc", "0xPat")
	if err != nil {
		t.Fatalf("RequestAccess() error = %v", err)
	}
	if req.Status != access.StatusPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}
	if req.From != "0xdoc" || req.To != "0xpat" {
		t.Errorf("endpoints = %q -> %q, want normalized", req.From, req.To)
	}

	t.Run("both parties see the request", func(t *testing.T) {
		if got := l.AccessRequestsFor(ctx, "0xdoc"); len(got) != 1 {
			t.Errorf("doctor sees %d requests, want 1", len(got))
		}
		if got := l.AccessRequestsFor(ctx, "0xpat"); len(got) != 1 {
			t.Errorf("patient sees %d requests, want 1", len(got))
		}
		if got := l.AccessRequestsFor(ctx, "0xother"); len(got) != 0 {
			t.Errorf("bystander sees %d requests, want 0", len(got))
		}
	})

	t.Run("invalid resolution", func(t *testing.T) {
		err := l.RespondToAccessRequest(ctx, req.ID.String(), "maybe")
		var ve medledger.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		if err := l.RespondToAccessRequest(ctx, "areq_0000000000000000000000000", "approved"); !errors.Is(err, medledger.ErrRequestNotFound) {
			t.Errorf("error = %v, want ErrRequestNotFound", err)
		}
	})

	t.Run("approval cascades into consent", func(t *testing.T) {
		if l.HasConsent(ctx, "0xpat", "0xdoc") {
			t.Fatal("consent already granted before approval")
		}
		if err := l.RespondToAccessRequest(ctx, req.ID.String(), "approved"); err != nil {
			t.Fatalf("RespondToAccessRequest() error = %v", err)
		}
		if !l.HasConsent(ctx, "0xpat", "0xdoc") {
			t.Error("HasConsent after approval = false, want true")
		}
		got := l.AccessRequestsFor(ctx, "0xdoc")
		if len(got) != 1 || got[0].Status != access.StatusApproved {
			t.Errorf("request after approval = %+v", got)
		}
	})

	t.Run("resolution is final", func(t *testing.T) {
		if err := l.RespondToAccessRequest(ctx, req.ID.String(), "rejected"); !errors.Is(err, medledger.ErrRequestResolved) {
			t.Errorf("error = %v, want ErrRequestResolved", err)
		}
	})

	t.Run("rejection grants nothing", func(t *testing.T) {
		mustRegister(t, l, "0xpat2", "patient")
		req2, err := l.RequestAccess(ctx, "0xdoc", "0xpat2")
		if err != nil {
			t.Fatal(err)
		}
		if err := l.RespondToAccessRequest(ctx, req2.ID.String(), "rejected"); err != nil {
			t.Fatalf("RespondToAccessRequest() error = %v", err)
		}
		if l.HasConsent(ctx, "0xpat2", "0xdoc") {
			t.Error("HasConsent after rejection = true, want false")
		}
	})
}

func TestInvoiceLifecycle(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	inv, err := l.CreateInvoice(ctx, "0xDoc", "0xPat", "149.50", "consultation")
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	if inv.Status != invoice.StatusPending {
		t.Errorf("Status = %q, want pending", inv.Status)
	}
	if inv.SettlementRef != "" {
		t.Errorf("SettlementRef = %q, want empty before payment", inv.SettlementRef)
	}

	t.Run("malformed amount", func(t *testing.T) {
		for _, amt := range []string{"", "-5", "12.", "abc", "1.2.3"} {
			if _, err := l.CreateInvoice(ctx, "0xdoc", "0xpat", amt, "x"); err == nil {
				t.Errorf("CreateInvoice(%q) error = nil, want validation failure", amt)
			}
		}
	})

	t.Run("pay assigns settlement reference", func(t *testing.T) {
		paid, err := l.PayInvoice(ctx, inv.ID.String())
		if err != nil {
			t.Fatalf("PayInvoice() error = %v", err)
		}
		if paid.Status != invoice.StatusPaid {
			t.Errorf("Status = %q, want paid", paid.Status)
		}
		if !strings.HasPrefix(paid.SettlementRef, "pay_") {
			t.Errorf("SettlementRef = %q, want pay_ prefix", paid.SettlementRef)
		}
	})

	t.Run("paid is terminal", func(t *testing.T) {
		if _, err := l.PayInvoice(ctx, inv.ID.String()); !errors.Is(err, medledger.ErrAlreadyPaid) {
			t.Errorf("error = %v, want ErrAlreadyPaid", err)
		}
	})

	t.Run("unknown invoice", func(t *testing.T) {
		if _, err := l.PayInvoice(ctx, "inv_0000000000000000000000000"); !errors.Is(err, medledger.ErrInvoiceNotFound) {
			t.Errorf("error = %v, want ErrInvoiceNotFound", err)
		}
	})

	t.Run("listing filters by party", func(t *testing.T) {
		if got := l.InvoicesFor(ctx, "0xdoc"); len(got) != 1 {
			t.Errorf("provider sees %d invoices, want 1", len(got))
		}
		if got := l.InvoicesFor(ctx, "0xpat"); len(got) != 1 {
			t.Errorf("patient sees %d invoices, want 1", len(got))
		}
		if got := l.InvoicesFor(ctx, "0xother"); len(got) != 0 {
			t.Errorf("bystander sees %d invoices, want 0", len(got))
		}
	})
}

func TestTip(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mustRegister(t, l, "0xdoc", "doctor")

	t.Run("unregistered recipient", func(t *testing.T) {
		if _, err := l.Tip(ctx, "0xpat", "0xghost", "5", "thanks"); !errors.Is(err, medledger.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	tip, err := l.Tip(ctx, "0xPat", "0xDoc", "5.00", "thank you")
	if err != nil {
		t.Fatalf("Tip() error = %v", err)
	}
	if tip.From != "0xpat" || tip.To != "0xdoc" {
		t.Errorf("endpoints = %q -> %q, want normalized", tip.From, tip.To)
	}

	if got := l.TipsFor(ctx, "0xdoc"); len(got) != 1 || got[0].Message != "thank you" {
		t.Errorf("TipsFor(doctor) = %+v, want the recorded tip", got)
	}
}

func TestBreakGlassAccess(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")

	t.Run("only doctors", func(t *testing.T) {
		if _, err := l.BreakGlassAccess(ctx, "0xpat", "0xpat", "why not"); !errors.Is(err, medledger.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("reason is required", func(t *testing.T) {
		_, err := l.BreakGlassAccess(ctx, "0xdoc", "0xpat", "")
		var ve medledger.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})

	t.Run("overrides a prior revocation", func(t *testing.T) {
		if err := l.GrantConsent(ctx, "0xpat", "0xdoc"); err != nil {
			t.Fatal(err)
		}
		if err := l.RevokeConsent(ctx, "0xpat", "0xdoc"); err != nil {
			t.Fatal(err)
		}

		entry, err := l.BreakGlassAccess(ctx, "0xdoc", "0xpat", "patient unconscious in ER")
		if err != nil {
			t.Fatalf("BreakGlassAccess() error = %v", err)
		}
		if !l.HasConsent(ctx, "0xpat", "0xdoc") {
			t.Error("HasConsent after break-glass = false, want true")
		}
		if entry.Reason != "patient unconscious in ER" {
			t.Errorf("Reason = %q", entry.Reason)
		}

		logs := l.EmergencyLogs(ctx)
		if len(logs) != 1 || logs[0].Doctor != "0xdoc" || logs[0].Patient != "0xpat" {
			t.Errorf("EmergencyLogs = %+v, want single entry for the access", logs)
		}
	})
}

func TestTransactionTrail(t *testing.T) {
	tick := time.Unix(1700000000, 0)
	l := newTestLedger(t, medledger.WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))
	ctx := context.Background()

	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")
	if err := l.GrantConsent(ctx, "0xpat", "0xdoc"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddHealthRecord(ctx, "0xpat", "0xpat", "QmHash", ""); err != nil {
		t.Fatal(err)
	}

	t.Run("newest first", func(t *testing.T) {
		txns := l.Transactions(ctx, "")
		if len(txns) != 4 {
			t.Fatalf("len = %d, want 4", len(txns))
		}
		if txns[0].Action != audit.ActionAddRecord {
			t.Errorf("head action = %q, want %q", txns[0].Action, audit.ActionAddRecord)
		}
		if txns[3].Action != audit.ActionRegister {
			t.Errorf("tail action = %q, want %q", txns[3].Action, audit.ActionRegister)
		}
		for i := 1; i < len(txns); i++ {
			if txns[i-1].Timestamp < txns[i].Timestamp {
				t.Errorf("timestamps out of order at %d: %d < %d", i, txns[i-1].Timestamp, txns[i].Timestamp)
			}
		}
	})

	t.Run("filter by address", func(t *testing.T) {
		for _, tx := range l.Transactions(ctx, "0xDoc") {
			if tx.From != "0xdoc" && tx.To != "0xdoc" {
				t.Errorf("filtered entry does not involve doctor: %+v", tx)
			}
		}
		if got := l.Transactions(ctx, "0xnobody"); len(got) != 0 {
			t.Errorf("unknown address sees %d entries, want 0", len(got))
		}
	})

	t.Run("entries carry unique hashes", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, tx := range l.Transactions(ctx, "") {
			h := tx.Hash.String()
			if seen[h] {
				t.Errorf("duplicate transaction hash %q", h)
			}
			seen[h] = true
		}
	})
}

func TestRestartPreservesState(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	l := medledger.New(st)
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")
	if err := l.GrantConsent(ctx, "0xpat", "0xdoc"); err != nil {
		t.Fatal(err)
	}
	req, err := l.RequestAccess(ctx, "0xdoc", "0xpat")
	if err != nil {
		t.Fatal(err)
	}

	// Engine shutdown does not close a shared store in this test; persist
	// happened on each mutation already.
	l2 := medledger.New(st)
	if err := l2.Start(ctx); err != nil {
		t.Fatalf("restart Start() error = %v", err)
	}

	if !l2.IsRegistered(ctx, "0xpat") || !l2.IsRegistered(ctx, "0xdoc") {
		t.Error("registrations lost across restart")
	}
	if !l2.HasConsent(ctx, "0xpat", "0xdoc") {
		t.Error("consent lost across restart")
	}
	if err := l2.RespondToAccessRequest(ctx, req.ID.String(), "approved"); err != nil {
		t.Errorf("resolving preexisting request after restart: %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mustRegister(t, l, "0xpat", "patient")
	mustRegister(t, l, "0xdoc", "doctor")

	req, err := l.RequestAccess(ctx, "0xdoc", "0xpat")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.RespondToAccessRequest(ctx, req.ID.String(), "approved"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddHealthRecord(ctx, "0xdoc", "0xpat", "QmScan", "mri"); err != nil {
		t.Fatal(err)
	}
	inv, err := l.CreateInvoice(ctx, "0xdoc", "0xpat", "250", "mri reading")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.PayInvoice(ctx, inv.ID.String()); err != nil {
		t.Fatal(err)
	}

	if got := l.RecordCount(ctx, "0xpat"); got != 1 {
		t.Errorf("RecordCount = %d, want 1", got)
	}
	invoices := l.InvoicesFor(ctx, "0xpat")
	if len(invoices) != 1 || invoices[0].Status != invoice.StatusPaid {
		t.Errorf("invoices = %+v, want single paid invoice", invoices)
	}

	txns := l.Transactions(ctx, "")
	wantActions := []string{
		audit.ActionPayInvoice,
		audit.ActionCreateInvoice,
		audit.ActionAddRecord,
		audit.ActionResolveAccess,
		audit.ActionRequestAccess,
		audit.ActionRegister,
		audit.ActionRegister,
	}
	if len(txns) != len(wantActions) {
		t.Fatalf("trail length = %d, want %d", len(txns), len(wantActions))
	}
	for i, want := range wantActions {
		if txns[i].Action != want {
			t.Errorf("trail[%d] = %q, want %q", i, txns[i].Action, want)
		}
	}
}

func mustRegister(t *testing.T, l *medledger.Ledger, address, role string) {
	t.Helper()
	if _, err := l.Register(context.Background(), address, role); err != nil {
		t.Fatalf("Register(%s, %s) error = %v", address, role, err)
	}
}
