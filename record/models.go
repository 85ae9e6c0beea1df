// Package record defines health record references stored on the ledger.
package record

// HealthRecord is an append-only reference to off-ledger health data.
// Records are never mutated or deleted once appended.
type HealthRecord struct {
	DataHash   string `json:"data_hash"`
	Timestamp  int64  `json:"timestamp"` // unix seconds
	RecordType string `json:"record_type"`
}
