package tokenledger

import "github.com/xraph/tokenledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Balance is re-exported from types package.
type Balance = types.Balance

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Balance constructors
var (
	ZeroBalance      = types.ZeroBalance
	U64              = types.U64
	MaxBalance       = types.MaxBalance
	ParseBalance     = types.ParseBalance
	MustParseBalance = types.MustParseBalance
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
