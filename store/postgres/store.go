package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	tokenledger "github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/id"
	ledgerstore "github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/transfer"
	"github.com/xraph/tokenledger/types"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("tokenledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("tokenledger/postgres: migration failed: %w", err)
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
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", acct.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, tokenledger.ErrNotRegistered
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) PutAccount(ctx context.Context, e *account.Entry) error {
	m := toAccountModel(e)
	_, err := s.pg.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("balance = EXCLUDED.balance").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) DeleteAccount(ctx context.Context, acct account.ID) error {
	res, err := s.pg.NewDelete((*accountModel)(nil)).
		Where("id = ?", acct.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tokenledger.ErrNotRegistered
	}
	return nil
}

func (s *Store) CountAccounts(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.pg.NewRaw(`SELECT COUNT(*) FROM tokenledger_accounts`).Scan(ctx, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ==================== Ledger state Store ====================

func (s *Store) TotalSupply(ctx context.Context) (types.Balance, error) {
	m := new(stateModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", 1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return types.ZeroBalance(), nil
		}
		return types.ZeroBalance(), err
	}
	return types.ParseBalance(m.TotalSupply)
}

func (s *Store) SetTotalSupply(ctx context.Context, supply types.Balance) error {
	res, err := s.pg.NewUpdate((*stateModel)(nil)).
		Set("total_supply = ?", supply.String()).
		Set("updated_at = ?", now()).
		Where("id = ?", 1).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tokenledger.ErrNotInitialized
	}
	return nil
}

func (s *Store) Initialized(ctx context.Context) (bool, error) {
	m := new(stateModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", 1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) SetInitialized(ctx context.Context, owner account.ID) error {
	t := now()
	m := &stateModel{
		ID:          1,
		Owner:       owner.String(),
		TotalSupply: types.ZeroBalance().String(),
		CreatedAt:   t,
		UpdatedAt:   t,
	}
	res, err := s.pg.NewInsert(m).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tokenledger.ErrAlreadyInitialized
	}
	return nil
}

func (s *Store) Owner(ctx context.Context) (account.ID, error) {
	m := new(stateModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", 1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return "", tokenledger.ErrNotInitialized
		}
		return "", err
	}
	return account.ID(m.Owner), nil
}

// ==================== Pending transfer Store ====================

func (s *Store) PutPendingTransfer(ctx context.Context, p *transfer.Pending) error {
	m := toPendingTransferModel(p)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetPendingTransfer(ctx context.Context, token id.TransferID) (*transfer.Pending, error) {
	m := new(pendingTransferModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", token.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, tokenledger.ErrPendingTransferNotFound
		}
		return nil, err
	}
	return fromPendingTransferModel(m)
}

func (s *Store) DeletePendingTransfer(ctx context.Context, token id.TransferID) error {
	res, err := s.pg.NewDelete((*pendingTransferModel)(nil)).
		Where("id = ?", token.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tokenledger.ErrPendingTransferNotFound
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) AppendEvents(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}
	models := make([]eventModel, len(events))
	for i, e := range events {
		models[i] = *toEventModel(e)
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) ListEvents(ctx context.Context, opts event.QueryOpts) ([]*event.Event, error) {
	var models []eventModel
	q := s.pg.NewSelect(&models)

	if opts.Kind != "" {
		q = q.Where("event = ?", string(opts.Kind))
	}
	if opts.Account != "" {
		a := opts.Account.String()
		q = q.Where("(owner_id = ? OR old_owner_id = ? OR new_owner_id = ?)", a, a, a)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
