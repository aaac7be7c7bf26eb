package account

import (
	"context"

	"github.com/xraph/tokenledger/types"
)

// Store is the per-entity storage contract for account entries.
// The unified store interface redeclares these methods.
type Store interface {
	// Get returns the entry for id, or a not-found error if the account
	// is not registered.
	Get(ctx context.Context, id ID) (*Entry, error)

	// Put creates or replaces the entry for e.ID.
	Put(ctx context.Context, e *Entry) error

	// Delete removes the entry for id. Removing an absent entry is a
	// not-found error.
	Delete(ctx context.Context, id ID) error

	// Count returns the number of registered accounts.
	Count(ctx context.Context) (uint64, error)

	// TotalSupply reads the maintained supply counter.
	TotalSupply(ctx context.Context) (types.Balance, error)

	// SetTotalSupply writes the maintained supply counter.
	SetTotalSupply(ctx context.Context, supply types.Balance) error
}
