package tokenledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/plugin"
	"github.com/xraph/tokenledger/stake"
	"github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/transfer"
	"github.com/xraph/tokenledger/types"
)

// initialMintMemo is attached to the mint event recorded by Init.
const initialMintMemo = "Initial tokens supply is minted"

// reversalMemo is attached to the compensating events recorded by
// ResolveTransfer.
const reversalMemo = "refund"

// Call identifies the caller of a mutating operation and the payment it
// attached. The payment is custody of the ledger for the duration of the
// call; whatever the operation does not consume is scheduled for refund
// through the Bank, including the full amount when the call fails.
type Call struct {
	Caller  account.ID
	Deposit types.Balance
}

// Bank pays refunds back out of the ledger's custody. Refunds are
// fire-and-forget: a Bank failure is logged, never surfaced to the caller,
// and never rolls back the committed mutation.
type Bank interface {
	ScheduleRefund(ctx context.Context, to account.ID, amount types.Balance) error
}

// BankFunc adapts a function to the Bank interface.
type BankFunc func(ctx context.Context, to account.ID, amount types.Balance) error

// ScheduleRefund implements Bank.
func (f BankFunc) ScheduleRefund(ctx context.Context, to account.ID, amount types.Balance) error {
	return f(ctx, to, amount)
}

// Ledger is the fungible-token engine: a registry of account balances with a
// maintained total supply, a storage-staking registration protocol, and a
// two-phase transfer-and-notify flow.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	bank    Bank
	pricing stake.Pricing

	// mu serializes mutating calls. Each call observes the state left by
	// the previous one; queries read the store directly.
	mu sync.Mutex

	// Background workers
	eventBuffer chan *event.Event
	stopChan    chan struct{}
	wg          sync.WaitGroup

	// Configuration
	eventBatchSize     int
	eventFlushInterval time.Duration
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:              s,
		plugins:            plugin.NewRegistry(),
		logger:             slog.Default(),
		pricing:            stake.DefaultPricing(),
		eventBuffer:        make(chan *event.Event, 10000),
		stopChan:           make(chan struct{}),
		eventBatchSize:     100,
		eventFlushInterval: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.bank == nil {
		l.bank = BankFunc(func(_ context.Context, to account.ID, amount types.Balance) error {
			l.logger.Info("refund scheduled", "account", to, "amount", amount)
			return nil
		})
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithBank sets the outbound payment channel for refunds.
func WithBank(b Bank) Option {
	return func(l *Ledger) {
		l.bank = b
	}
}

// WithPricing sets the storage pricing model.
func WithPricing(p stake.Pricing) Option {
	return func(l *Ledger) {
		l.pricing = p
	}
}

// WithEventConfig configures journal flushing parameters.
func WithEventConfig(batchSize int, flushInterval time.Duration) Option {
	return func(l *Ledger) {
		l.eventBatchSize = batchSize
		l.eventFlushInterval = flushInterval
	}
}

// Start begins background workers.
func (l *Ledger) Start(ctx context.Context) error {
	// Migrate database
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	l.plugins.EmitInit(ctx, l)

	// Start journal flush worker
	l.wg.Add(1)
	go l.eventFlushWorker(ctx)

	l.logger.Info("ledger started",
		"batch_size", l.eventBatchSize,
		"flush_interval", l.eventFlushInterval,
	)

	return nil
}

// Stop shuts down the Ledger. Buffered journal events are flushed before the
// store is closed.
func (l *Ledger) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Initialization
// ──────────────────────────────────────────────────

// Init creates the ledger state exactly once: the owner account is
// registered and the entire initial supply is minted into it. A second call
// fails with ErrAlreadyInitialized regardless of arguments.
func (l *Ledger) Init(ctx context.Context, owner account.ID, totalSupply types.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	done, err := l.store.Initialized(ctx)
	if err != nil {
		return err
	}
	if done {
		return ErrAlreadyInitialized
	}
	if !owner.IsValid() {
		return ErrInvalidAccountID
	}

	if err := l.store.SetInitialized(ctx, owner); err != nil {
		return err
	}
	if err := l.internalRegister(ctx, owner); err != nil {
		return err
	}
	if err := l.internalDeposit(ctx, owner, totalSupply); err != nil {
		return err
	}

	l.plugins.EmitAccountRegistered(ctx, owner.String())

	evt := event.NewMint(owner, totalSupply, initialMintMemo)
	l.journal(evt)
	l.plugins.EmitMint(ctx, evt)

	l.logger.Info("ledger initialized", "owner", owner, "total_supply", totalSupply)

	return nil
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// TotalSupply returns the maintained supply counter. It equals the sum of
// all registered balances at every quiescent point.
func (l *Ledger) TotalSupply(ctx context.Context) (types.Balance, error) {
	if err := l.requireInit(ctx); err != nil {
		return types.ZeroBalance(), err
	}
	return l.store.TotalSupply(ctx)
}

// BalanceOf returns the balance held by acct, or zero if the account is not
// registered. Reading a balance never fails for an unregistered account.
func (l *Ledger) BalanceOf(ctx context.Context, acct account.ID) (types.Balance, error) {
	if err := l.requireInit(ctx); err != nil {
		return types.ZeroBalance(), err
	}
	e, err := l.store.GetAccount(ctx, acct)
	if err != nil {
		if errors.Is(err, ErrNotRegistered) {
			return types.ZeroBalance(), nil
		}
		return types.ZeroBalance(), err
	}
	return e.Balance, nil
}

// Owner returns the account the initial supply was minted into.
func (l *Ledger) Owner(ctx context.Context) (account.ID, error) {
	if err := l.requireInit(ctx); err != nil {
		return "", err
	}
	return l.store.Owner(ctx)
}

// StorageBalanceBounds returns the deposit range accepted by registration.
// Min and Max are equal: every account entry has the same fixed footprint.
func (l *Ledger) StorageBalanceBounds(ctx context.Context) (stake.Bounds, error) {
	cost, err := l.pricing.AccountCost()
	if err != nil {
		return stake.Bounds{}, err
	}
	return stake.Bounds{Min: cost, Max: cost}, nil
}

// StorageBalanceOf returns the storage balance staked by acct, or nil if the
// account is not registered.
func (l *Ledger) StorageBalanceOf(ctx context.Context, acct account.ID) (*stake.Balance, error) {
	if err := l.requireInit(ctx); err != nil {
		return nil, err
	}
	_, err := l.store.GetAccount(ctx, acct)
	if err != nil {
		if errors.Is(err, ErrNotRegistered) {
			return nil, nil
		}
		return nil, err
	}
	return l.stakeView()
}

// StorageUsage returns the ledger's storage footprint in bytes under the
// deterministic usage model.
func (l *Ledger) StorageUsage(ctx context.Context) (uint64, error) {
	n, err := l.store.CountAccounts(ctx)
	if err != nil {
		return 0, err
	}
	return l.pricing.UsageBytes(n), nil
}

// Events returns journal events matching opts, oldest first. Events pass
// through a buffered flush pipeline, so the most recent mutations may not be
// visible until the next flush.
func (l *Ledger) Events(ctx context.Context, opts event.QueryOpts) ([]*event.Event, error) {
	return l.store.ListEvents(ctx, opts)
}

// ──────────────────────────────────────────────────
// Registration
// ──────────────────────────────────────────────────

// StorageDeposit registers an account by staking its storage cost out of the
// attached payment. The target is beneficiary when non-nil, else the caller.
// Depositing for an already-registered account is a no-op that refunds the
// full payment. Any payment beyond the fixed cost is refunded; a payment
// below it fails the call with ErrInsufficientDeposit and a full refund.
//
// registrationOnly is accepted for interface compatibility; with a fixed
// per-account footprint both modes behave identically.
func (l *Ledger) StorageDeposit(ctx context.Context, call Call, beneficiary *account.ID, registrationOnly bool) (*stake.Balance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireInit(ctx); err != nil {
		return nil, err
	}

	target := call.Caller
	if beneficiary != nil {
		target = *beneficiary
	}
	if !target.IsValid() {
		l.refund(ctx, call.Caller, call.Deposit)
		return nil, ErrInvalidAccountID
	}

	_, err := l.store.GetAccount(ctx, target)
	if err == nil {
		// Already registered: nothing to pay for.
		l.logger.Info("account already registered, refunding deposit",
			"account", target,
			"deposit", call.Deposit,
		)
		l.refund(ctx, call.Caller, call.Deposit)
		return l.stakeView()
	}
	if !errors.Is(err, ErrNotRegistered) {
		return nil, err
	}

	cost, err := l.pricing.AccountCost()
	if err != nil {
		return nil, err
	}
	if call.Deposit.Less(cost) {
		l.refund(ctx, call.Caller, call.Deposit)
		return nil, ErrInsufficientDeposit
	}

	if err := l.internalRegister(ctx, target); err != nil {
		l.refund(ctx, call.Caller, call.Deposit)
		return nil, err
	}

	l.plugins.EmitAccountRegistered(ctx, target.String())

	excess, err := call.Deposit.Sub(cost)
	if err != nil {
		return nil, err
	}
	l.refund(ctx, call.Caller, excess)

	l.logger.Info("account registered",
		"account", target,
		"staked", cost,
		"refunded", excess,
	)

	return l.stakeView()
}

// StorageWithdraw releases unlocked storage balance back to the caller. The
// available balance is always zero in this model, so any positive amount
// fails with ErrInsufficientStorageBalance; a nil or zero amount succeeds and
// returns the current view. Requires an attached payment of at least one
// unit, which is refunded.
func (l *Ledger) StorageWithdraw(ctx context.Context, call Call, amount *types.Balance) (*stake.Balance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireInit(ctx); err != nil {
		return nil, err
	}
	if call.Deposit.IsZero() {
		return nil, ErrRequiresAttachedPayment
	}

	if _, err := l.store.GetAccount(ctx, call.Caller); err != nil {
		l.refund(ctx, call.Caller, call.Deposit)
		return nil, err
	}

	if amount != nil && !amount.IsZero() {
		l.refund(ctx, call.Caller, call.Deposit)
		return nil, ErrInsufficientStorageBalance
	}

	l.refund(ctx, call.Caller, call.Deposit)
	return l.stakeView()
}

// StorageUnregister removes the caller's account and refunds its storage
// stake plus the attached payment. A positive balance blocks the close
// unless force is set, in which case the balance is burned out of the total
// supply. Returns true when an account was closed. Requires an attached
// payment of at least one unit.
func (l *Ledger) StorageUnregister(ctx context.Context, call Call, force bool) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireInit(ctx); err != nil {
		return false, err
	}
	if call.Deposit.IsZero() {
		return false, ErrRequiresAttachedPayment
	}

	e, err := l.store.GetAccount(ctx, call.Caller)
	if err != nil {
		l.refund(ctx, call.Caller, call.Deposit)
		return false, err
	}

	if !e.Balance.IsZero() && !force {
		l.refund(ctx, call.Caller, call.Deposit)
		return false, ErrNonZeroBalance
	}

	burned := e.Balance
	if !burned.IsZero() {
		if err := l.burnSupply(ctx, burned); err != nil {
			l.refund(ctx, call.Caller, call.Deposit)
			return false, err
		}
	}
	if err := l.store.DeleteAccount(ctx, call.Caller); err != nil {
		l.refund(ctx, call.Caller, call.Deposit)
		return false, err
	}

	if !burned.IsZero() {
		evt := event.NewBurn(call.Caller, burned, "")
		l.journal(evt)
		l.plugins.EmitBurn(ctx, evt)
	}
	evt := event.NewAccountClose(call.Caller, burned)
	l.journal(evt)
	l.plugins.EmitAccountClosed(ctx, call.Caller.String(), burned.String())

	// Released stake plus the attached payment go back in one refund.
	cost, err := l.pricing.AccountCost()
	if err != nil {
		return true, err
	}
	refund, err := cost.Add(call.Deposit)
	if err != nil {
		return true, err
	}
	l.refund(ctx, call.Caller, refund)

	l.logger.Info("account unregistered",
		"account", call.Caller,
		"burned", burned,
		"refunded", refund,
	)

	return true, nil
}

// ──────────────────────────────────────────────────
// Transfers
// ──────────────────────────────────────────────────

// Transfer moves amount from the caller to receiver. Requires an attached
// payment of at least one unit as proof of intent; the payment is refunded
// after the transfer commits. Both accounts must be registered, the amount
// must be positive, and self-transfers are rejected.
func (l *Ledger) Transfer(ctx context.Context, call Call, receiver account.ID, amount types.Balance, memo string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireInit(ctx); err != nil {
		return err
	}
	if call.Deposit.IsZero() {
		return ErrRequiresAttachedPayment
	}

	if err := l.internalTransfer(ctx, call.Caller, receiver, amount); err != nil {
		l.refund(ctx, call.Caller, call.Deposit)
		return err
	}

	evt := event.NewTransfer(call.Caller, receiver, amount, memo)
	l.journal(evt)
	l.plugins.EmitTransfer(ctx, evt)

	l.refund(ctx, call.Caller, call.Deposit)

	l.logger.Debug("transfer committed",
		"sender", call.Caller,
		"receiver", receiver,
		"amount", amount,
	)

	return nil
}

// TransferCall moves amount from the caller to receiver and records a
// pending continuation carrying payload for the receiver's acceptance
// callback. The returned token resolves the continuation via
// ResolveTransfer. Until then queries observe the transfer as fully applied.
func (l *Ledger) TransferCall(ctx context.Context, call Call, receiver account.ID, amount types.Balance, memo, payload string) (id.TransferID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireInit(ctx); err != nil {
		return id.TransferID{}, err
	}
	if call.Deposit.IsZero() {
		return id.TransferID{}, ErrRequiresAttachedPayment
	}

	if err := l.internalTransfer(ctx, call.Caller, receiver, amount); err != nil {
		l.refund(ctx, call.Caller, call.Deposit)
		return id.TransferID{}, err
	}

	p := &transfer.Pending{
		Entity:   types.NewEntity(),
		ID:       id.NewTransferID(),
		Sender:   call.Caller,
		Receiver: receiver,
		Amount:   amount,
		Memo:     memo,
		Payload:  payload,
	}
	if err := l.store.PutPendingTransfer(ctx, p); err != nil {
		// The balance movement stands; without a continuation it behaves
		// like a plain transfer, so surface the store failure.
		l.refund(ctx, call.Caller, call.Deposit)
		return id.TransferID{}, err
	}

	evt := event.NewTransfer(call.Caller, receiver, amount, memo)
	l.journal(evt)
	l.plugins.EmitTransfer(ctx, evt)

	l.refund(ctx, call.Caller, call.Deposit)

	l.logger.Debug("transfer-and-notify committed",
		"token", p.ID,
		"sender", call.Caller,
		"receiver", receiver,
		"amount", amount,
	)

	return p.ID, nil
}

// ResolveTransfer settles the pending transfer identified by token. unused
// is the portion the receiver reports as not kept; it is clamped to the
// amount originally sent, then to the receiver's current balance, and the
// clamped portion is reversed back to the sender. If the sender has since
// unregistered, the reversal is burned instead. The continuation is removed
// whatever the outcome.
func (l *Ledger) ResolveTransfer(ctx context.Context, token id.TransferID, unused types.Balance) (*transfer.Resolution, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireInit(ctx); err != nil {
		return nil, err
	}

	p, err := l.store.GetPendingTransfer(ctx, token)
	if err != nil {
		return nil, err
	}

	reversal := types.Min(unused, p.Amount)
	res := &transfer.Resolution{
		Used:     p.Amount,
		Reversed: types.ZeroBalance(),
		Burned:   types.ZeroBalance(),
	}

	if !reversal.IsZero() {
		re, err := l.store.GetAccount(ctx, p.Receiver)
		if err != nil {
			if !errors.Is(err, ErrNotRegistered) {
				return nil, err
			}
			// Receiver unregistered after accepting: nothing left to claw
			// back.
			reversal = types.ZeroBalance()
		} else {
			reversal = types.Min(reversal, re.Balance)
		}

		if !reversal.IsZero() {
			newReceiver, err := re.Balance.Sub(reversal)
			if err != nil {
				return nil, err
			}
			re.Balance = newReceiver
			re.Touch()
			if err := l.store.PutAccount(ctx, re); err != nil {
				return nil, err
			}

			se, err := l.store.GetAccount(ctx, p.Sender)
			switch {
			case err == nil:
				newSender, err := se.Balance.Add(reversal)
				if err != nil {
					return nil, err
				}
				se.Balance = newSender
				se.Touch()
				if err := l.store.PutAccount(ctx, se); err != nil {
					return nil, err
				}
				res.Reversed = reversal

				evt := event.NewTransfer(p.Receiver, p.Sender, reversal, reversalMemo)
				l.journal(evt)
				l.plugins.EmitTransferReversed(ctx, evt)

			case errors.Is(err, ErrNotRegistered):
				// Sender is gone; the clawed-back tokens leave the supply.
				if err := l.burnSupply(ctx, reversal); err != nil {
					return nil, err
				}
				res.Burned = reversal

				evt := event.NewBurn(p.Receiver, reversal, reversalMemo)
				l.journal(evt)
				l.plugins.EmitBurn(ctx, evt)

			default:
				return nil, err
			}

			used, err := p.Amount.Sub(reversal)
			if err != nil {
				return nil, err
			}
			res.Used = used
		}
	}

	if err := l.store.DeletePendingTransfer(ctx, token); err != nil {
		return nil, err
	}

	l.logger.Debug("transfer resolved",
		"token", token,
		"used", res.Used,
		"reversed", res.Reversed,
		"burned", res.Burned,
	)

	return res, nil
}

// ──────────────────────────────────────────────────
// Internal operations
// ──────────────────────────────────────────────────

func (l *Ledger) requireInit(ctx context.Context) error {
	done, err := l.store.Initialized(ctx)
	if err != nil {
		return err
	}
	if !done {
		return ErrNotInitialized
	}
	return nil
}

// internalRegister creates a zero-balance entry for acct.
func (l *Ledger) internalRegister(ctx context.Context, acct account.ID) error {
	_, err := l.store.GetAccount(ctx, acct)
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, ErrNotRegistered) {
		return err
	}
	return l.store.PutAccount(ctx, &account.Entry{
		Entity:  types.NewEntity(),
		ID:      acct,
		Balance: types.ZeroBalance(),
	})
}

// internalDeposit mints amount into a registered account, growing the total
// supply by the same amount.
func (l *Ledger) internalDeposit(ctx context.Context, acct account.ID, amount types.Balance) error {
	e, err := l.store.GetAccount(ctx, acct)
	if err != nil {
		return err
	}
	newBalance, err := e.Balance.Add(amount)
	if err != nil {
		return err
	}
	supply, err := l.store.TotalSupply(ctx)
	if err != nil {
		return err
	}
	newSupply, err := supply.Add(amount)
	if err != nil {
		return err
	}

	e.Balance = newBalance
	e.Touch()
	if err := l.store.PutAccount(ctx, e); err != nil {
		return err
	}
	return l.store.SetTotalSupply(ctx, newSupply)
}

// internalTransfer moves amount between two registered accounts. All checks
// run before any write, so a failure leaves both balances untouched. Total
// supply is unchanged.
func (l *Ledger) internalTransfer(ctx context.Context, sender, receiver account.ID, amount types.Balance) error {
	if sender == receiver {
		return ErrSelfTransfer
	}
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if !receiver.IsValid() {
		return ErrInvalidAccountID
	}

	se, err := l.store.GetAccount(ctx, sender)
	if err != nil {
		return err
	}
	re, err := l.store.GetAccount(ctx, receiver)
	if err != nil {
		if errors.Is(err, ErrNotRegistered) {
			return ErrReceiverNotRegistered
		}
		return err
	}

	newSender, err := se.Balance.Sub(amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	newReceiver, err := re.Balance.Add(amount)
	if err != nil {
		return err
	}

	se.Balance = newSender
	se.Touch()
	re.Balance = newReceiver
	re.Touch()
	if err := l.store.PutAccount(ctx, se); err != nil {
		return err
	}
	return l.store.PutAccount(ctx, re)
}

// burnSupply shrinks the total supply by amount. The matching balance debit
// is the caller's responsibility.
func (l *Ledger) burnSupply(ctx context.Context, amount types.Balance) error {
	supply, err := l.store.TotalSupply(ctx)
	if err != nil {
		return err
	}
	newSupply, err := supply.Sub(amount)
	if err != nil {
		return err
	}
	return l.store.SetTotalSupply(ctx, newSupply)
}

// refund hands amount back to the Bank. Zero refunds are skipped. Failures
// are logged and swallowed: the triggering mutation has already committed.
func (l *Ledger) refund(ctx context.Context, to account.ID, amount types.Balance) {
	if amount.IsZero() {
		return
	}
	l.plugins.EmitRefundScheduled(ctx, to.String(), amount.String())
	if err := l.bank.ScheduleRefund(ctx, to, amount); err != nil {
		l.logger.Error("failed to schedule refund",
			"account", to,
			"amount", amount,
			"error", err,
		)
	}
}

func (l *Ledger) stakeView() (*stake.Balance, error) {
	cost, err := l.pricing.AccountCost()
	if err != nil {
		return nil, err
	}
	return &stake.Balance{Total: cost, Available: types.ZeroBalance()}, nil
}

// ──────────────────────────────────────────────────
// Journal pipeline
// ──────────────────────────────────────────────────

// journal buffers an event for the flush worker. The journal is
// observability, not ledger state: on a full buffer the event is dropped
// with a warning rather than blocking the mutation path.
func (l *Ledger) journal(evt *event.Event) {
	select {
	case l.eventBuffer <- evt:
	default:
		l.logger.Warn("event buffer full, dropping event",
			"kind", evt.Kind,
			"event_id", evt.ID,
		)
	}
}

// eventFlushWorker flushes journal events to the store.
func (l *Ledger) eventFlushWorker(ctx context.Context) {
	defer l.wg.Done()

	batch := make([]*event.Event, 0, l.eventBatchSize)
	ticker := time.NewTicker(l.eventFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			// Drain the buffer, then final flush
			for {
				select {
				case evt := <-l.eventBuffer:
					batch = append(batch, evt)
					continue
				default:
				}
				break
			}
			if len(batch) > 0 {
				l.flushEventBatch(ctx, batch)
			}
			return

		case evt := <-l.eventBuffer:
			batch = append(batch, evt)
			if len(batch) >= l.eventBatchSize {
				l.flushEventBatch(ctx, batch)
				batch = make([]*event.Event, 0, l.eventBatchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				l.flushEventBatch(ctx, batch)
				batch = make([]*event.Event, 0, l.eventBatchSize)
			}
		}
	}
}

func (l *Ledger) flushEventBatch(ctx context.Context, batch []*event.Event) {
	start := time.Now()

	if err := l.store.AppendEvents(ctx, batch); err != nil {
		l.logger.Error("failed to flush event batch",
			"error", err,
			"batch_size", len(batch),
		)
		return
	}

	elapsed := time.Since(start)
	l.plugins.EmitEventsFlushed(ctx, len(batch), elapsed)

	l.logger.Debug("flushed event batch",
		"batch_size", len(batch),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}
