package tokenledger

import "github.com/xraph/tokenledger/id"

// ID is the primary identifier type for all Ledger entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

// TransferID identifies a pending transfer continuation.
type TransferID = id.TransferID
