package store

import (
	"context"

	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/transfer"
	"github.com/xraph/tokenledger/types"
)

// Store is the unified storage interface for all Ledger entities.
// Instead of embedding the per-entity sub-interfaces, we explicitly declare
// all methods to avoid naming conflicts.
type Store interface {
	// Account methods
	GetAccount(ctx context.Context, acct account.ID) (*account.Entry, error)
	PutAccount(ctx context.Context, e *account.Entry) error
	DeleteAccount(ctx context.Context, acct account.ID) error
	CountAccounts(ctx context.Context) (uint64, error)

	// Ledger state methods
	TotalSupply(ctx context.Context) (types.Balance, error)
	SetTotalSupply(ctx context.Context, supply types.Balance) error
	Initialized(ctx context.Context) (bool, error)
	SetInitialized(ctx context.Context, owner account.ID) error
	Owner(ctx context.Context) (account.ID, error)

	// Pending transfer methods
	PutPendingTransfer(ctx context.Context, p *transfer.Pending) error
	GetPendingTransfer(ctx context.Context, token id.TransferID) (*transfer.Pending, error)
	DeletePendingTransfer(ctx context.Context, token id.TransferID) error

	// Journal methods
	AppendEvents(ctx context.Context, events []*event.Event) error
	ListEvents(ctx context.Context, opts event.QueryOpts) ([]*event.Event, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
