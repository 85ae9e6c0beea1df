package dispatch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/dispatch"
	"github.com/medchain/medledger/identity"
	"github.com/medchain/medledger/invoice"
	"github.com/medchain/medledger/store/memory"
)

func newHandler(t *testing.T) *dispatch.Handler {
	t.Helper()

	l := medledger.New(memory.New())
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { l.Stop() })
	return dispatch.New(l)
}

func TestDoRegisterAndQuery(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	res, err := h.Do(ctx, dispatch.ActionRegister, map[string]string{
		"address": "0xAlice",
		"role":    "patient",
	})
	if err != nil {
		t.Fatalf("register error = %v", err)
	}
	if u, ok := res.(*identity.User); !ok || u.Address != "0xalice" {
		t.Errorf("result = %#v, want registered user", res)
	}

	res, err = h.Do(ctx, dispatch.ActionIsRegistered, map[string]string{"address": "0xalice"})
	if err != nil || res != true {
		t.Errorf("isRegistered = %v, %v; want true, nil", res, err)
	}

	res, err = h.Do(ctx, dispatch.ActionGetRole, map[string]string{"address": "0xalice"})
	if err != nil || res != "patient" {
		t.Errorf("getRole = %v, %v; want patient, nil", res, err)
	}
}

func TestDoFullFlow(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	steps := []struct {
		action string
		params map[string]string
	}{
		{dispatch.ActionRegister, map[string]string{"address": "0xpat", "role": "patient"}},
		{dispatch.ActionRegister, map[string]string{"address": "0xdoc", "role": "doctor"}},
		{dispatch.ActionAddBeneficiary, map[string]string{"patient": "0xpat", "beneficiary": "0xcousin"}},
		{dispatch.ActionGrantConsent, map[string]string{"patient": "0xpat", "consumer": "0xdoc"}},
		{dispatch.ActionAddHealthRecord, map[string]string{"sender": "0xpat", "patient": "0xpat", "dataHash": "QmHash", "recordType": "lab"}},
	}
	for _, step := range steps {
		if _, err := h.Do(ctx, step.action, step.params); err != nil {
			t.Fatalf("%s error = %v", step.action, err)
		}
	}

	res, err := h.Do(ctx, dispatch.ActionHasConsent, map[string]string{"patient": "0xpat", "consumer": "0xdoc"})
	if err != nil || res != true {
		t.Errorf("hasConsent = %v, %v; want true", res, err)
	}

	res, err = h.Do(ctx, dispatch.ActionGetRecordCount, map[string]string{"patient": "0xpat"})
	if err != nil || res != 1 {
		t.Errorf("getRecordCount = %v, %v; want 1", res, err)
	}

	res, err = h.Do(ctx, dispatch.ActionRequestAccess, map[string]string{"from": "0xdoc", "to": "0xpat"})
	if err != nil {
		t.Fatalf("requestAccess error = %v", err)
	}

	res, err = h.Do(ctx, dispatch.ActionCreateInvoice, map[string]string{
		"provider": "0xdoc", "patient": "0xpat", "amount": "100", "service": "visit",
	})
	if err != nil {
		t.Fatalf("createInvoice error = %v", err)
	}
	inv := res.(*invoice.Invoice)

	res, err = h.Do(ctx, dispatch.ActionPayInvoice, map[string]string{"invoiceId": inv.ID.String()})
	if err != nil {
		t.Fatalf("payInvoice error = %v", err)
	}
	if paid := res.(*invoice.Invoice); paid.SettlementRef == "" {
		t.Error("paid invoice has empty settlement ref")
	}

	res, err = h.Do(ctx, dispatch.ActionGetTransactions, map[string]string{})
	if err != nil {
		t.Fatalf("getTransactions error = %v", err)
	}
}

func TestDoMissingParams(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	tests := []struct {
		action string
		params map[string]string
	}{
		{dispatch.ActionRegister, map[string]string{"role": "patient"}},
		{dispatch.ActionRegister, map[string]string{"address": "0xa"}},
		{dispatch.ActionGrantConsent, map[string]string{"patient": "0xa"}},
		{dispatch.ActionGetHealthRecord, map[string]string{"patient": "0xa"}},
		{dispatch.ActionPayInvoice, map[string]string{}},
		{dispatch.ActionBreakGlassAccess, map[string]string{"doctor": "0xd", "patient": "0xp"}},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			_, err := h.Do(ctx, tt.action, tt.params)
			if dispatch.Code(err) != dispatch.CodeValidation {
				t.Errorf("Code = %q (err %v), want VALIDATION_ERROR", dispatch.Code(err), err)
			}
		})
	}
}

func TestDoBadIndex(t *testing.T) {
	h := newHandler(t)

	_, err := h.Do(context.Background(), dispatch.ActionGetHealthRecord, map[string]string{
		"patient": "0xpat",
		"index":   "abc",
	})
	if dispatch.Code(err) != dispatch.CodeValidation {
		t.Errorf("Code = %q, want VALIDATION_ERROR", dispatch.Code(err))
	}
}

func TestDoUnknownAction(t *testing.T) {
	h := newHandler(t)

	_, err := h.Do(context.Background(), "selfDestruct", nil)
	if dispatch.Code(err) != dispatch.CodeNotFound {
		t.Errorf("Code = %q, want NOT_FOUND", dispatch.Code(err))
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		http int
	}{
		{"nil", nil, "", http.StatusOK},
		{"already registered", medledger.ErrAlreadyRegistered, dispatch.CodeAlreadyRegistered, http.StatusConflict},
		{"invalid role", medledger.ErrInvalidRole, dispatch.CodeInvalidRole, http.StatusBadRequest},
		{"unauthorized", medledger.ErrUnauthorized, dispatch.CodeUnauthorized, http.StatusForbidden},
		{"not found", medledger.ErrNotFound, dispatch.CodeNotFound, http.StatusNotFound},
		{"request not found", medledger.ErrRequestNotFound, dispatch.CodeNotFound, http.StatusNotFound},
		{"invoice not found", medledger.ErrInvoiceNotFound, dispatch.CodeNotFound, http.StatusNotFound},
		{"index out of range", medledger.ErrIndexOutOfRange, dispatch.CodeIndexOutOfRange, http.StatusBadRequest},
		{"already resolved", medledger.ErrRequestResolved, dispatch.CodeAlreadyResolved, http.StatusConflict},
		{"already paid", medledger.ErrAlreadyPaid, dispatch.CodeAlreadyPaid, http.StatusConflict},
		{"validation", medledger.ValidationError{Field: "x", Message: "required"}, dispatch.CodeValidation, http.StatusBadRequest},
		{"internal", context.DeadlineExceeded, dispatch.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dispatch.Code(tt.err); got != tt.code {
				t.Errorf("Code = %q, want %q", got, tt.code)
			}
			if got := dispatch.HTTPStatus(tt.err); got != tt.http {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.http)
			}
		})
	}
}
