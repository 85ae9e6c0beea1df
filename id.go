package medledger

import "github.com/medchain/medledger/id"

// ID is the primary identifier type for all generated entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
