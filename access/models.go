// Package access defines doctor-initiated access requests.
package access

import (
	"fmt"
	"strings"

	"github.com/medchain/medledger/id"
)

// Status of an access request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseResolution parses a resolution status case-insensitively.
// Only approved and rejected are valid resolutions; a request cannot be
// reset to pending.
func ParseResolution(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("access: invalid resolution status %q", s)
	}
}

// Request is a doctor's request for access to a patient's records.
// Once created it is resolved (approved or rejected) exactly once.
type Request struct {
	ID        id.ID  `json:"id"`
	From      string `json:"from"` // doctor
	To        string `json:"to"`   // patient
	Status    Status `json:"status"`
	Timestamp int64  `json:"timestamp"` // unix seconds
}

// Resolved reports whether the request has reached a terminal status.
func (r *Request) Resolved() bool {
	return r.Status != StatusPending
}

// Involves reports whether the address is the requester or the target.
func (r *Request) Involves(address string) bool {
	return r.From == address || r.To == address
}
