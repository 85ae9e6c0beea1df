package audit

// Action tags written to audit transactions, one per mutating operation.
const (
	ActionRegister        = "user.registered"
	ActionAddBeneficiary  = "beneficiary.added"
	ActionGrantConsent    = "consent.granted"
	ActionRevokeConsent   = "consent.revoked"
	ActionAddRecord       = "record.added"
	ActionRequestAccess   = "access.requested"
	ActionResolveAccess   = "access.resolved"
	ActionCreateInvoice   = "invoice.created"
	ActionPayInvoice      = "invoice.paid"
	ActionTip             = "tip.recorded"
	ActionEmergencyAccess = "emergency.access"
)
