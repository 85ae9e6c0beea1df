package extension

// Config holds the ledger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.medledger" or "medledger" keys).
type Config struct {
	// SnapshotPath is the path of a JSON snapshot file. When set and no
	// store was provided programmatically, a file-backed store at this
	// path is used instead of the in-memory store.
	SnapshotPath string `json:"snapshot_path" mapstructure:"snapshot_path" yaml:"snapshot_path"`

	// EnforceConsentWrites requires an active consent edge before a
	// doctor can append health records for a patient.
	EnforceConsentWrites bool `json:"enforce_consent_writes" mapstructure:"enforce_consent_writes" yaml:"enforce_consent_writes"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}
