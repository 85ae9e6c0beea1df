// Package identity defines users, roles, and address normalization for
// the MedLedger authorization ledger.
package identity

import (
	"fmt"
	"strings"

	"github.com/medchain/medledger/types"
)

// Role is a user's role on the ledger.
type Role string

const (
	RoleNone    Role = "none"
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole parses a role string case-insensitively. Only the two
// self-service roles (patient, doctor) are accepted; none and admin are
// not self-assignable.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	default:
		return RoleNone, fmt.Errorf("identity: invalid role %q", s)
	}
}

// Index returns the stable numeric encoding of the role.
// Unknown roles encode as 0, the same as RoleNone.
func (r Role) Index() int {
	switch r {
	case RolePatient:
		return 1
	case RoleDoctor:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// String returns the role as its canonical lowercase string.
func (r Role) String() string { return string(r) }

// Normalize maps an address to its single canonical form. All lookups and
// mutations key on the normalized address so that differently-cased forms
// of the same identity never produce two entries.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// User is a registered ledger identity.
type User struct {
	types.Entity

	Address    string `json:"address"`
	Role       Role   `json:"role"`
	Registered bool   `json:"registered"`
}

// IsDoctor reports whether the user is a registered doctor.
func (u *User) IsDoctor() bool {
	return u != nil && u.Registered && u.Role == RoleDoctor
}

// IsPatient reports whether the user is a registered patient.
func (u *User) IsPatient() bool {
	return u != nil && u.Registered && u.Role == RolePatient
}
