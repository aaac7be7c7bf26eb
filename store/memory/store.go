package memory

import (
	"context"
	"sync"

	"github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/transfer"
	"github.com/xraph/tokenledger/types"
)

// Store is an in-memory store, suitable for tests and single-process use.
// Entries are copied in and out, so callers can mutate what they get back
// without touching store state until the next Put.
type Store struct {
	mu sync.RWMutex

	// Account storage
	accounts map[account.ID]account.Entry

	// Ledger state
	supply      types.Balance
	initialized bool
	owner       account.ID

	// Pending transfer storage
	pending map[string]transfer.Pending

	// Event journal
	events []*event.Event
}

func New() *Store {
	return &Store{
		accounts: make(map[account.ID]account.Entry),
		supply:   types.ZeroBalance(),
		pending:  make(map[string]transfer.Pending),
		events:   make([]*event.Event, 0),
	}
}

// Account Store implementation
func (s *Store) GetAccount(_ context.Context, acct account.ID) (*account.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.accounts[acct]; ok {
		return &e, nil
	}
	return nil, tokenledger.ErrNotRegistered
}

func (s *Store) PutAccount(_ context.Context, e *account.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[e.ID] = *e
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, acct account.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acct]; !ok {
		return tokenledger.ErrNotRegistered
	}
	delete(s.accounts, acct)
	return nil
}

func (s *Store) CountAccounts(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.accounts)), nil
}

// Ledger state implementation
func (s *Store) TotalSupply(_ context.Context) (types.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.supply, nil
}

func (s *Store) SetTotalSupply(_ context.Context, supply types.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supply = supply
	return nil
}

func (s *Store) Initialized(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.initialized, nil
}

func (s *Store) SetInitialized(_ context.Context, owner account.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return tokenledger.ErrAlreadyInitialized
	}
	s.initialized = true
	s.owner = owner
	return nil
}

func (s *Store) Owner(_ context.Context) (account.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return "", tokenledger.ErrNotInitialized
	}
	return s.owner, nil
}

// Pending transfer Store implementation
func (s *Store) PutPendingTransfer(_ context.Context, p *transfer.Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[p.ID.String()] = *p
	return nil
}

func (s *Store) GetPendingTransfer(_ context.Context, token id.TransferID) (*transfer.Pending, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.pending[token.String()]; ok {
		return &p, nil
	}
	return nil, tokenledger.ErrPendingTransferNotFound
}

func (s *Store) DeletePendingTransfer(_ context.Context, token id.TransferID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[token.String()]; !ok {
		return tokenledger.ErrPendingTransferNotFound
	}
	delete(s.pending, token.String())
	return nil
}

// Journal Store implementation
func (s *Store) AppendEvents(_ context.Context, events []*event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)
	return nil
}

func (s *Store) ListEvents(_ context.Context, opts event.QueryOpts) ([]*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*event.Event, 0)
	for _, e := range s.events {
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if opts.Account != "" &&
			e.Owner != opts.Account && e.Sender != opts.Account && e.Receiver != opts.Account {
			continue
		}
		result = append(result, e)
	}

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
