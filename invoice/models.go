// Package invoice defines billing invoices and tips recorded on the ledger.
//
// Amounts are opaque decimal strings; MedLedger records them but performs
// no settlement.
package invoice

import (
	"github.com/medchain/medledger/id"
	"github.com/medchain/medledger/types"
)

// Status of an invoice. Paid is terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Invoice is a provider-issued bill to a patient.
type Invoice struct {
	ID            id.ID        `json:"id"`
	Provider      string       `json:"provider"`
	Patient       string       `json:"patient"`
	Amount        types.Amount `json:"amount"`
	Service       string       `json:"service"`
	Status        Status       `json:"status"`
	Timestamp     int64        `json:"timestamp"` // unix seconds
	SettlementRef string       `json:"settlement_ref,omitempty"`
}

// Involves reports whether the address is the provider or the patient.
func (i *Invoice) Involves(address string) bool {
	return i.Provider == address || i.Patient == address
}

// Tip is a voluntary payment note from one user to another.
type Tip struct {
	ID        id.ID        `json:"id"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	Amount    types.Amount `json:"amount"`
	Message   string       `json:"message,omitempty"`
	Timestamp int64        `json:"timestamp"` // unix seconds
}
