// Package consent tracks patient-to-consumer authorization edges.
//
// An edge is keyed by (patient, consumer) and holds the most recent
// grant/revoke decision. Edges are never removed: revocation writes an
// explicit false so the fact that consent was once granted and later
// withdrawn remains visible in the persisted document.
package consent

// Ledger maps patient address → consumer address → granted.
type Ledger map[string]map[string]bool

// Set records a grant (true) or revoke (false) decision for the pair.
// Setting an absent pair to false is a no-op write, not an error.
func (l Ledger) Set(patient, consumer string, granted bool) {
	edges, ok := l[patient]
	if !ok {
		edges = make(map[string]bool)
		l[patient] = edges
	}
	edges[consumer] = granted
}

// Granted reports whether the most recent decision for the pair is a
// grant. Absent pairs default to false.
func (l Ledger) Granted(patient, consumer string) bool {
	return l[patient][consumer]
}

// Clone returns a deep copy of the consent ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for patient, edges := range l {
		copied := make(map[string]bool, len(edges))
		for consumer, granted := range edges {
			copied[consumer] = granted
		}
		out[patient] = copied
	}
	return out
}
