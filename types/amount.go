package types

import (
	"fmt"
	"strings"
)

// Amount is an opaque decimal string, e.g. "0.01" or "125".
//
// MedLedger does not settle value; amounts are carried verbatim through
// invoices and tips and compared only for well-formedness. No arithmetic
// is performed on them, which sidesteps floating-point precision issues
// entirely.
type Amount string

// ParseAmount validates s as a non-negative decimal string and returns it
// as an Amount. Accepted forms: "0", "12", "0.01", "12.5". A leading sign,
// empty string, bare dot, or any non-digit character is rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("amount: empty string")
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" {
		return "", fmt.Errorf("amount: %q missing integer part", s)
	}
	if hasDot && fracPart == "" {
		return "", fmt.Errorf("amount: %q missing fractional part", s)
	}
	for _, part := range []string{intPart, fracPart} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return "", fmt.Errorf("amount: %q is not a decimal string", s)
			}
		}
	}

	return Amount(s), nil
}

// MustAmount is like ParseAmount but panics on error. Use for hardcoded values.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(fmt.Sprintf("types: must amount %q: %v", s, err))
	}
	return a
}

// String returns the amount as its original decimal string.
func (a Amount) String() string { return string(a) }

// IsZero reports whether the amount is empty or all-zero digits.
func (a Amount) IsZero() bool {
	if a == "" {
		return true
	}
	for _, r := range a {
		if r != '0' && r != '.' {
			return false
		}
	}
	return true
}
