package transfer

import (
	"context"

	"github.com/xraph/tokenledger/id"
)

// Store is the per-entity storage contract for pending transfers.
// The unified store interface redeclares these methods.
type Store interface {
	// Put persists a pending transfer continuation.
	Put(ctx context.Context, p *Pending) error

	// Get returns the pending transfer for token, or a not-found error.
	Get(ctx context.Context, token id.TransferID) (*Pending, error)

	// Delete removes a resolved continuation.
	Delete(ctx context.Context, token id.TransferID) error
}
