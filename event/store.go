package event

import (
	"context"

	"github.com/xraph/tokenledger/account"
)

// Store is the per-entity storage contract for the event journal.
// The unified store interface redeclares these methods.
type Store interface {
	// Append writes a batch of events to the journal.
	Append(ctx context.Context, events []*Event) error

	// List returns journal events matching opts, oldest first.
	List(ctx context.Context, opts QueryOpts) ([]*Event, error)
}

// QueryOpts filters a journal listing.
type QueryOpts struct {
	// Kind restricts results to one event kind; empty matches all.
	Kind Kind

	// Account matches events where the account appears as owner, sender
	// or receiver; empty matches all.
	Account account.ID

	Limit  int
	Offset int
}
