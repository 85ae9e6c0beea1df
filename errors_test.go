package medledger

import (
	"fmt"
	"testing"
)

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		fn   func(error) bool
		want bool
	}{
		{"not found", ErrNotFound, IsNotFound, true},
		{"request not found", ErrRequestNotFound, IsNotFound, true},
		{"invoice not found", ErrInvoiceNotFound, IsNotFound, true},
		{"wrapped not found", fmt.Errorf("load: %w", ErrNotRegistered), IsNotFound, true},
		{"unauthorized", ErrUnauthorized, IsUnauthorized, true},
		{"conflict registered", ErrAlreadyRegistered, IsConflict, true},
		{"conflict resolved", ErrRequestResolved, IsConflict, true},
		{"conflict paid", ErrAlreadyPaid, IsConflict, true},
		{"validation struct", ValidationError{Field: "amount", Message: "bad"}, IsValidation, true},
		{"validation role", ErrInvalidRole, IsValidation, true},
		{"retryable store", ErrStoreNotReady, IsRetryable, true},
		{"wrapped retryable", fmt.Errorf("ping: %w", ErrStoreNotReady), IsRetryable, true},
		{"closed is not retryable", ErrStoreClosed, IsRetryable, false},
		{"unauthorized is not a conflict", ErrUnauthorized, IsConflict, false},
		{"not found is not validation", ErrNotFound, IsValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.err); got != tt.want {
				t.Errorf("classifier(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
