// Package audit defines the append-only audit trail of the ledger:
// one Transaction per state-changing action, plus the permanent
// emergency access log written by break-glass operations.
package audit

import "github.com/medchain/medledger/id"

// Status of an audit transaction.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Transaction is an immutable record of a single state-changing action.
// The trail is newest-first: entries are prepended, never sorted.
type Transaction struct {
	Hash      id.ID             `json:"hash"`
	From      string            `json:"from"`
	To        string            `json:"to,omitempty"`
	Action    string            `json:"action"`
	Data      map[string]string `json:"data,omitempty"`
	Timestamp int64             `json:"timestamp"` // unix seconds
	Status    Status            `json:"status"`
}

// Involves reports whether the address is the source or the target.
func (t *Transaction) Involves(address string) bool {
	return t.From == address || t.To == address
}

// EmergencyLog is the permanent record of one break-glass access.
// Entries are never retracted by any other operation.
type EmergencyLog struct {
	ID        id.ID  `json:"id"`
	Doctor    string `json:"doctor"`
	Patient   string `json:"patient"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"` // unix seconds
}
