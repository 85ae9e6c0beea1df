package audithook

// Action constants for audit events.
const (
	// Identity actions
	ActionUserRegistered   = "user.registered"
	ActionBeneficiaryAdded = "beneficiary.added"

	// Consent actions
	ActionConsentGranted = "consent.granted"
	ActionConsentRevoked = "consent.revoked"

	// Record actions
	ActionRecordAdded = "record.added"

	// Access actions
	ActionAccessRequested = "access.requested"
	ActionAccessResolved  = "access.resolved"
	ActionEmergencyAccess = "emergency.access"

	// Billing actions
	ActionInvoiceCreated = "invoice.created"
	ActionInvoicePaid    = "invoice.paid"
	ActionTipRecorded    = "tip.recorded"
)

// Resource constants for audit events.
const (
	ResourceUser        = "user"
	ResourceBeneficiary = "beneficiary"
	ResourceConsent     = "consent"
	ResourceRecord      = "record"
	ResourceAccess      = "access_request"
	ResourceInvoice     = "invoice"
	ResourceTip         = "tip"
	ResourceEmergency   = "emergency_log"
)

// Category constants for audit events.
const (
	CategoryIdentity = "identity"
	CategoryConsent  = "consent"
	CategoryRecords  = "records"
	CategoryAccess   = "access"
	CategoryPayment  = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
