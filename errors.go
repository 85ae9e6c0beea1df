package medledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound     = errors.New("medledger: not found")
	ErrUnauthorized = errors.New("medledger: unauthorized")
	ErrInvalidInput = errors.New("medledger: invalid input")

	// Identity errors
	ErrAlreadyRegistered = errors.New("medledger: address already registered")
	ErrInvalidRole       = errors.New("medledger: invalid role")
	ErrNotRegistered     = errors.New("medledger: address not registered")

	// Record errors
	ErrIndexOutOfRange = errors.New("medledger: record index out of range")

	// Access request errors
	ErrRequestNotFound = errors.New("medledger: access request not found")
	ErrRequestResolved = errors.New("medledger: access request already resolved")

	// Invoice errors
	ErrInvoiceNotFound = errors.New("medledger: invoice not found")
	ErrAlreadyPaid     = errors.New("medledger: invoice already paid")

	// Store errors
	ErrStoreNotReady = errors.New("medledger: store not ready")
	ErrStoreClosed   = errors.New("medledger: store is closed")
)

// ValidationError represents a malformed-input failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("medledger: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrInvoiceNotFound)
}

// IsUnauthorized returns true if the error is a role or ownership failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsConflict returns true if the error reports an attempt to repeat a
// once-only transition (registration, request resolution, payment).
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrRequestResolved) ||
		errors.Is(err, ErrAlreadyPaid)
}

// IsRetryable returns true if the error is temporary and the operation can
// be retried once the store becomes reachable again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady)
}

// IsValidation returns true if the error reports malformed input.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrIndexOutOfRange)
}
