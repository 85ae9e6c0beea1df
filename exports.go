package medledger

import "github.com/medchain/medledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Amount constructors
var (
	ParseAmount = types.ParseAmount
	MustAmount  = types.MustAmount
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
