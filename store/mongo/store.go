package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	tokenledger "github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/id"
	ledgerstore "github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/transfer"
	"github.com/xraph/tokenledger/types"
)

// Collection name constants.
const (
	colAccounts         = "tokenledger_accounts"
	colState            = "tokenledger_state"
	colPendingTransfers = "tokenledger_pending_transfers"
	colEvents           = "tokenledger_events"
)

// stateDocID is the _id of the singleton state document.
const stateDocID = 1

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all ledger collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("tokenledger/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Account Store ====================

func (s *Store) GetAccount(ctx context.Context, acct account.ID) (*account.Entry, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": acct.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, tokenledger.ErrNotRegistered
		}
		return nil, fmt.Errorf("tokenledger/mongo: get account: %w", err)
	}
	return fromAccountModel(&m)
}

func (s *Store) PutAccount(ctx context.Context, e *account.Entry) error {
	m := toAccountModel(e)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":        m.ID,
			"balance":    m.Balance,
			"created_at": m.CreatedAt,
			"updated_at": m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tokenledger/mongo: put account: %w", err)
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, acct account.ID) error {
	res, err := s.mdb.NewDelete((*accountModel)(nil)).
		Filter(bson.M{"_id": acct.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tokenledger/mongo: delete account: %w", err)
	}
	if res.DeletedCount() == 0 {
		return tokenledger.ErrNotRegistered
	}
	return nil
}

func (s *Store) CountAccounts(ctx context.Context) (uint64, error) {
	count, err := s.mdb.Collection(colAccounts).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("tokenledger/mongo: count accounts: %w", err)
	}
	return uint64(count), nil
}

// ==================== Ledger state Store ====================

func (s *Store) TotalSupply(ctx context.Context) (types.Balance, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return types.ZeroBalance(), nil
		}
		return types.ZeroBalance(), fmt.Errorf("tokenledger/mongo: total supply: %w", err)
	}
	return types.ParseBalance(m.TotalSupply)
}

func (s *Store) SetTotalSupply(ctx context.Context, supply types.Balance) error {
	res, err := s.mdb.NewUpdate((*stateModel)(nil)).
		Filter(bson.M{"_id": stateDocID}).
		Set("total_supply", supply.String()).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tokenledger/mongo: set total supply: %w", err)
	}
	if res.MatchedCount() == 0 {
		return tokenledger.ErrNotInitialized
	}
	return nil
}

func (s *Store) Initialized(ctx context.Context) (bool, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return false, nil
		}
		return false, fmt.Errorf("tokenledger/mongo: initialized: %w", err)
	}
	return true, nil
}

func (s *Store) SetInitialized(ctx context.Context, owner account.ID) error {
	t := now()
	m := &stateModel{
		ID:          stateDocID,
		Owner:       owner.String(),
		TotalSupply: types.ZeroBalance().String(),
		CreatedAt:   t,
		UpdatedAt:   t,
	}
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tokenledger.ErrAlreadyInitialized
		}
		return fmt.Errorf("tokenledger/mongo: set initialized: %w", err)
	}
	return nil
}

func (s *Store) Owner(ctx context.Context) (account.ID, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return "", tokenledger.ErrNotInitialized
		}
		return "", fmt.Errorf("tokenledger/mongo: owner: %w", err)
	}
	return account.ID(m.Owner), nil
}

// ==================== Pending transfer Store ====================

func (s *Store) PutPendingTransfer(ctx context.Context, p *transfer.Pending) error {
	m := toPendingTransferModel(p)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("tokenledger/mongo: put pending transfer: %w", err)
	}
	return nil
}

func (s *Store) GetPendingTransfer(ctx context.Context, token id.TransferID) (*transfer.Pending, error) {
	var m pendingTransferModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": token.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, tokenledger.ErrPendingTransferNotFound
		}
		return nil, fmt.Errorf("tokenledger/mongo: get pending transfer: %w", err)
	}
	return fromPendingTransferModel(&m)
}

func (s *Store) DeletePendingTransfer(ctx context.Context, token id.TransferID) error {
	res, err := s.mdb.NewDelete((*pendingTransferModel)(nil)).
		Filter(bson.M{"_id": token.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tokenledger/mongo: delete pending transfer: %w", err)
	}
	if res.DeletedCount() == 0 {
		return tokenledger.ErrPendingTransferNotFound
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) AppendEvents(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		m := toEventModel(e)
		_, err := s.mdb.NewInsert(m).Exec(ctx)
		if err != nil {
			// Events carry unique IDs; a duplicate means a retried flush
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return fmt.Errorf("tokenledger/mongo: append event: %w", err)
		}
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, opts event.QueryOpts) ([]*event.Event, error) {
	var models []eventModel

	filter := bson.M{}
	if opts.Kind != "" {
		filter["event"] = string(opts.Kind)
	}
	if opts.Account != "" {
		a := opts.Account.String()
		filter["$or"] = []bson.M{
			{"owner_id": a},
			{"old_owner_id": a},
			{"new_owner_id": a},
		}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "timestamp", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tokenledger/mongo: list events: %w", err)
	}

	result := make([]*event.Event, len(models))
	for i := range models {
		evt, err := fromEventModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = evt
	}
	return result, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all ledger collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAccounts: {
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		},
		colState: {},
		colPendingTransfers: {
			{Keys: bson.D{{Key: "sender", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		colEvents: {
			{Keys: bson.D{{Key: "event", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
	}
}
