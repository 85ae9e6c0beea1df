package id_test

import (
	"strings"
	"testing"

	"github.com/medchain/medledger/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"AccessRequestID", id.NewAccessRequestID, "areq_"},
		{"InvoiceID", id.NewInvoiceID, "inv_"},
		{"TipID", id.NewTipID, "tip_"},
		{"TransactionID", id.NewTransactionID, "txn_"},
		{"EmergencyLogID", id.NewEmergencyLogID, "emrg_"},
		{"PaymentID", id.NewPaymentID, "pay_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixAccessRequest)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixAccessRequest {
		t.Errorf("expected prefix %q, got %q", id.PrefixAccessRequest, i.Prefix())
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		s := id.NewTransactionID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"AccessRequestID", id.NewAccessRequestID, id.ParseAccessRequestID},
		{"InvoiceID", id.NewInvoiceID, id.ParseInvoiceID},
		{"TipID", id.NewTipID, id.ParseTipID},
		{"TransactionID", id.NewTransactionID, id.ParseTransactionID},
		{"EmergencyLogID", id.NewEmergencyLogID, id.ParseEmergencyLogID},
		{"PaymentID", id.NewPaymentID, id.ParsePaymentID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parseFn func(string) (id.ID, error)
	}{
		{"ParseAccessRequestID rejects inv_", id.NewInvoiceID().String(), id.ParseAccessRequestID},
		{"ParseInvoiceID rejects tip_", id.NewTipID().String(), id.ParseInvoiceID},
		{"ParseTipID rejects txn_", id.NewTransactionID().String(), id.ParseTipID},
		{"ParseTransactionID rejects emrg_", id.NewEmergencyLogID().String(), id.ParseTransactionID},
		{"ParseEmergencyLogID rejects pay_", id.NewPaymentID().String(), id.ParseEmergencyLogID},
		{"ParsePaymentID rejects areq_", id.NewAccessRequestID().String(), id.ParsePaymentID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parseFn(tt.input)
			if err == nil {
				t.Errorf("expected cross-type rejection for %q", tt.input)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{"", "not-a-typeid", "areq_", "_missingprefix"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := id.Parse(input); err == nil {
				t.Errorf("Parse(%q): expected error", input)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	original := id.NewInvoiceID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", decoded.String(), original.String())
	}
}

func TestNilID(t *testing.T) {
	if !id.Nil.IsNil() {
		t.Error("Nil.IsNil() = false")
	}
	if id.Nil.String() != "" {
		t.Errorf("Nil.String() = %q, want empty", id.Nil.String())
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(nil); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !decoded.IsNil() {
		t.Error("expected Nil after unmarshaling empty text")
	}
}
