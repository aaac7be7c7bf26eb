package tokenledger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tokenledger "github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/store/memory"
	"github.com/xraph/tokenledger/types"
)

var (
	owner = account.MustParse("treasury.acme")
	alice = account.MustParse("alice.acme")
	bob   = account.MustParse("bob.acme")
)

// recordingBank captures scheduled refunds for assertions.
type recordingBank struct {
	mu      sync.Mutex
	refunds []refundRecord
}

type refundRecord struct {
	to     account.ID
	amount types.Balance
}

func (b *recordingBank) ScheduleRefund(_ context.Context, to account.ID, amount types.Balance) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refunds = append(b.refunds, refundRecord{to: to, amount: amount})
	return nil
}

// total sums all refunds scheduled for an account.
func (b *recordingBank) total(t *testing.T, to account.ID) types.Balance {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	sum := types.ZeroBalance()
	for _, r := range b.refunds {
		if r.to != to {
			continue
		}
		var err error
		sum, err = sum.Add(r.amount)
		if err != nil {
			t.Fatalf("refund sum overflow: %v", err)
		}
	}
	return sum
}

func (b *recordingBank) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.refunds)
}

// recordingPlugin captures lifecycle hook invocations.
type recordingPlugin struct {
	mu         sync.Mutex
	mints      []*event.Event
	transfers  []*event.Event
	reversals  []*event.Event
	burns      []*event.Event
	registered []string
	closed     []string
}

func (p *recordingPlugin) Name() string { return "recording" }

func (p *recordingPlugin) OnMint(_ context.Context, evt interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mints = append(p.mints, evt.(*event.Event))
	return nil
}

func (p *recordingPlugin) OnTransfer(_ context.Context, evt interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transfers = append(p.transfers, evt.(*event.Event))
	return nil
}

func (p *recordingPlugin) OnTransferReversed(_ context.Context, evt interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reversals = append(p.reversals, evt.(*event.Event))
	return nil
}

func (p *recordingPlugin) OnBurn(_ context.Context, evt interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.burns = append(p.burns, evt.(*event.Event))
	return nil
}

func (p *recordingPlugin) OnAccountRegistered(_ context.Context, accountID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, accountID)
	return nil
}

func (p *recordingPlugin) OnAccountClosed(_ context.Context, accountID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, accountID)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestLedger builds a ledger on a memory store with a recording bank.
func newTestLedger(t *testing.T, opts ...tokenledger.Option) (*tokenledger.Ledger, *recordingBank) {
	t.Helper()
	bank := &recordingBank{}
	opts = append(opts,
		tokenledger.WithBank(bank),
		tokenledger.WithLogger(quietLogger()),
	)
	return tokenledger.New(memory.New(), opts...), bank
}

// initLedger initializes the ledger with a default owner and supply.
func initLedger(t *testing.T, l *tokenledger.Ledger, supply types.Balance) {
	t.Helper()
	if err := l.Init(context.Background(), owner, supply); err != nil {
		t.Fatalf("Init: %v", err)
	}
}

// register stakes the exact storage cost for an account.
func register(t *testing.T, l *tokenledger.Ledger, acct account.ID) {
	t.Helper()
	ctx := context.Background()
	bounds, err := l.StorageBalanceBounds(ctx)
	if err != nil {
		t.Fatalf("StorageBalanceBounds: %v", err)
	}
	if _, err := l.StorageDeposit(ctx, tokenledger.Call{Caller: acct, Deposit: bounds.Min}, nil, false); err != nil {
		t.Fatalf("StorageDeposit(%s): %v", acct, err)
	}
}

// fund moves amount from the owner to an already-registered account.
func fund(t *testing.T, l *tokenledger.Ledger, to account.ID, amount types.Balance) {
	t.Helper()
	call := tokenledger.Call{Caller: owner, Deposit: types.U64(1)}
	if err := l.Transfer(context.Background(), call, to, amount, ""); err != nil {
		t.Fatalf("Transfer(owner -> %s): %v", to, err)
	}
}

func assertBalance(t *testing.T, l *tokenledger.Ledger, acct account.ID, want types.Balance) {
	t.Helper()
	got, err := l.BalanceOf(context.Background(), acct)
	if err != nil {
		t.Fatalf("BalanceOf(%s): %v", acct, err)
	}
	if !got.Equal(want) {
		t.Errorf("balance of %s = %s, want %s", acct, got, want)
	}
}

func assertSupply(t *testing.T, l *tokenledger.Ledger, want types.Balance) {
	t.Helper()
	got, err := l.TotalSupply(context.Background())
	if err != nil {
		t.Fatalf("TotalSupply: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("total supply = %s, want %s", got, want)
	}
}

// ──────────────────────────────────────────────────
// Initialization
// ──────────────────────────────────────────────────

func TestInit(t *testing.T) {
	ctx := context.Background()
	supply := types.MustParseBalance("1000000000000000000000000")

	t.Run("MintsSupplyIntoOwner", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)

		assertSupply(t, l, supply)
		assertBalance(t, l, owner, supply)

		got, err := l.Owner(ctx)
		if err != nil {
			t.Fatalf("Owner: %v", err)
		}
		if got != owner {
			t.Errorf("Owner = %s, want %s", got, owner)
		}
	})

	t.Run("SecondCallFails", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)

		err := l.Init(ctx, alice, types.U64(1))
		if !errors.Is(err, tokenledger.ErrAlreadyInitialized) {
			t.Errorf("second Init error = %v, want ErrAlreadyInitialized", err)
		}
		// The first initialization is untouched.
		assertSupply(t, l, supply)
		assertBalance(t, l, alice, types.ZeroBalance())
	})

	t.Run("InvalidOwner", func(t *testing.T) {
		l, _ := newTestLedger(t)
		err := l.Init(ctx, account.ID("Not Valid!"), supply)
		if !errors.Is(err, tokenledger.ErrInvalidAccountID) {
			t.Errorf("Init error = %v, want ErrInvalidAccountID", err)
		}
	})

	t.Run("OperationsBeforeInit", func(t *testing.T) {
		l, _ := newTestLedger(t)

		if _, err := l.TotalSupply(ctx); !errors.Is(err, tokenledger.ErrNotInitialized) {
			t.Errorf("TotalSupply error = %v, want ErrNotInitialized", err)
		}
		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		if err := l.Transfer(ctx, call, bob, types.U64(10), ""); !errors.Is(err, tokenledger.ErrNotInitialized) {
			t.Errorf("Transfer error = %v, want ErrNotInitialized", err)
		}
	})

	t.Run("ZeroSupply", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, types.ZeroBalance())
		assertSupply(t, l, types.ZeroBalance())
		assertBalance(t, l, owner, types.ZeroBalance())
	})
}

// ──────────────────────────────────────────────────
// Registration
// ──────────────────────────────────────────────────

func TestStorageBalanceBounds(t *testing.T) {
	l, _ := newTestLedger(t)
	bounds, err := l.StorageBalanceBounds(context.Background())
	if err != nil {
		t.Fatalf("StorageBalanceBounds: %v", err)
	}
	if !bounds.Min.Equal(bounds.Max) {
		t.Errorf("bounds Min %s != Max %s; accounts have a fixed footprint", bounds.Min, bounds.Max)
	}
	// 125 bytes at 1e19 per byte.
	want := types.MustParseBalance("1250000000000000000000")
	if !bounds.Min.Equal(want) {
		t.Errorf("bounds.Min = %s, want %s", bounds.Min, want)
	}
}

func TestStorageDeposit(t *testing.T) {
	ctx := context.Background()
	supply := types.U64(1_000_000)

	t.Run("ExactDeposit", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)
		bounds, _ := l.StorageBalanceBounds(ctx)

		before := bank.count()
		view, err := l.StorageDeposit(ctx, tokenledger.Call{Caller: alice, Deposit: bounds.Min}, nil, false)
		if err != nil {
			t.Fatalf("StorageDeposit: %v", err)
		}
		if !view.Total.Equal(bounds.Min) || !view.Available.IsZero() {
			t.Errorf("view = {%s, %s}, want {%s, 0}", view.Total, view.Available, bounds.Min)
		}
		if bank.count() != before {
			t.Errorf("exact deposit scheduled a refund")
		}
		assertBalance(t, l, alice, types.ZeroBalance())
	})

	t.Run("ExcessRefunded", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)
		bounds, _ := l.StorageBalanceBounds(ctx)

		extra := types.U64(12345)
		deposit, err := bounds.Min.Add(extra)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := l.StorageDeposit(ctx, tokenledger.Call{Caller: alice, Deposit: deposit}, nil, false); err != nil {
			t.Fatalf("StorageDeposit: %v", err)
		}
		if got := bank.total(t, alice); !got.Equal(extra) {
			t.Errorf("refunded %s, want %s", got, extra)
		}
	})

	t.Run("InsufficientDeposit", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)

		deposit := types.U64(1)
		_, err := l.StorageDeposit(ctx, tokenledger.Call{Caller: alice, Deposit: deposit}, nil, false)
		if !errors.Is(err, tokenledger.ErrInsufficientDeposit) {
			t.Fatalf("error = %v, want ErrInsufficientDeposit", err)
		}
		// Full payment comes back and alice stays unregistered.
		if got := bank.total(t, alice); !got.Equal(deposit) {
			t.Errorf("refunded %s, want %s", got, deposit)
		}
		view, err := l.StorageBalanceOf(ctx, alice)
		if err != nil {
			t.Fatalf("StorageBalanceOf: %v", err)
		}
		if view != nil {
			t.Error("alice registered despite insufficient deposit")
		}
	})

	t.Run("AlreadyRegistered", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)

		deposit := types.U64(999)
		view, err := l.StorageDeposit(ctx, tokenledger.Call{Caller: alice, Deposit: deposit}, nil, false)
		if err != nil {
			t.Fatalf("repeat StorageDeposit: %v", err)
		}
		if view == nil {
			t.Fatal("repeat deposit returned nil view")
		}
		if got := bank.total(t, alice); !got.Equal(deposit) {
			t.Errorf("refunded %s, want the full %s", got, deposit)
		}
	})

	t.Run("Beneficiary", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)
		bounds, _ := l.StorageBalanceBounds(ctx)

		// Alice pays for bob's registration.
		call := tokenledger.Call{Caller: alice, Deposit: bounds.Min}
		if _, err := l.StorageDeposit(ctx, call, &bob, false); err != nil {
			t.Fatalf("StorageDeposit for beneficiary: %v", err)
		}
		view, err := l.StorageBalanceOf(ctx, bob)
		if err != nil || view == nil {
			t.Fatalf("bob not registered: view=%v err=%v", view, err)
		}
		aliceView, err := l.StorageBalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if aliceView != nil {
			t.Error("alice registered herself while paying for bob")
		}
	})

	t.Run("InvalidBeneficiary", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)
		bounds, _ := l.StorageBalanceBounds(ctx)

		bad := account.ID("UPPER CASE")
		_, err := l.StorageDeposit(ctx, tokenledger.Call{Caller: alice, Deposit: bounds.Min}, &bad, false)
		if !errors.Is(err, tokenledger.ErrInvalidAccountID) {
			t.Fatalf("error = %v, want ErrInvalidAccountID", err)
		}
		if got := bank.total(t, alice); !got.Equal(bounds.Min) {
			t.Errorf("refunded %s, want the full %s", got, bounds.Min)
		}
	})

	t.Run("UsageGrows", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)

		base, err := l.StorageUsage(ctx)
		if err != nil {
			t.Fatal(err)
		}
		register(t, l, alice)
		after, err := l.StorageUsage(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if after != base+125 {
			t.Errorf("usage after registration = %d, want %d", after, base+125)
		}
	})
}

func TestStorageWithdraw(t *testing.T) {
	ctx := context.Background()
	supply := types.U64(1_000_000)

	t.Run("RequiresPayment", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)

		_, err := l.StorageWithdraw(ctx, tokenledger.Call{Caller: alice}, nil)
		if !errors.Is(err, tokenledger.ErrRequiresAttachedPayment) {
			t.Errorf("error = %v, want ErrRequiresAttachedPayment", err)
		}
	})

	t.Run("Unregistered", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)

		deposit := types.U64(1)
		_, err := l.StorageWithdraw(ctx, tokenledger.Call{Caller: alice, Deposit: deposit}, nil)
		if !errors.Is(err, tokenledger.ErrNotRegistered) {
			t.Errorf("error = %v, want ErrNotRegistered", err)
		}
		if got := bank.total(t, alice); !got.Equal(deposit) {
			t.Errorf("refunded %s, want %s", got, deposit)
		}
	})

	t.Run("PositiveAmount", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)

		amount := types.U64(1)
		_, err := l.StorageWithdraw(ctx, tokenledger.Call{Caller: alice, Deposit: types.U64(1)}, &amount)
		if !errors.Is(err, tokenledger.ErrInsufficientStorageBalance) {
			t.Errorf("error = %v, want ErrInsufficientStorageBalance", err)
		}
	})

	t.Run("NilAmount", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)
		bounds, _ := l.StorageBalanceBounds(ctx)

		deposit := types.U64(7)
		view, err := l.StorageWithdraw(ctx, tokenledger.Call{Caller: alice, Deposit: deposit}, nil)
		if err != nil {
			t.Fatalf("StorageWithdraw: %v", err)
		}
		if !view.Total.Equal(bounds.Min) || !view.Available.IsZero() {
			t.Errorf("view = {%s, %s}, want {%s, 0}", view.Total, view.Available, bounds.Min)
		}
		if got := bank.total(t, alice); !got.Equal(deposit) {
			t.Errorf("refunded %s, want %s", got, deposit)
		}
	})
}

func TestStorageUnregister(t *testing.T) {
	ctx := context.Background()
	supply := types.U64(1_000_000)

	t.Run("RequiresPayment", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)

		_, err := l.StorageUnregister(ctx, tokenledger.Call{Caller: alice}, false)
		if !errors.Is(err, tokenledger.ErrRequiresAttachedPayment) {
			t.Errorf("error = %v, want ErrRequiresAttachedPayment", err)
		}
	})

	t.Run("Unregistered", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)

		_, err := l.StorageUnregister(ctx, tokenledger.Call{Caller: alice, Deposit: types.U64(1)}, false)
		if !errors.Is(err, tokenledger.ErrNotRegistered) {
			t.Errorf("error = %v, want ErrNotRegistered", err)
		}
	})

	t.Run("NonZeroBalanceBlocks", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)
		fund(t, l, alice, types.U64(50))

		closed, err := l.StorageUnregister(ctx, tokenledger.Call{Caller: alice, Deposit: types.U64(1)}, false)
		if !errors.Is(err, tokenledger.ErrNonZeroBalance) {
			t.Fatalf("error = %v, want ErrNonZeroBalance", err)
		}
		if closed {
			t.Error("account reported closed after rejected unregister")
		}
		assertBalance(t, l, alice, types.U64(50))
		assertSupply(t, l, supply)
	})

	t.Run("CleanClose", func(t *testing.T) {
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)
		bounds, _ := l.StorageBalanceBounds(ctx)

		deposit := types.U64(1)
		closed, err := l.StorageUnregister(ctx, tokenledger.Call{Caller: alice, Deposit: deposit}, false)
		if err != nil {
			t.Fatalf("StorageUnregister: %v", err)
		}
		if !closed {
			t.Error("closed = false, want true")
		}
		view, err := l.StorageBalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if view != nil {
			t.Error("alice still registered after unregister")
		}
		// Stake plus attached payment comes back in one refund.
		want, err := bounds.Min.Add(deposit)
		if err != nil {
			t.Fatal(err)
		}
		if got := bank.total(t, alice); !got.Equal(want) {
			t.Errorf("refunded %s, want %s", got, want)
		}
		assertSupply(t, l, supply)
	})

	t.Run("ForceBurnsBalance", func(t *testing.T) {
		plugin := &recordingPlugin{}
		l, _ := newTestLedger(t, tokenledger.WithPlugin(plugin))
		initLedger(t, l, supply)
		register(t, l, alice)
		fund(t, l, alice, types.U64(50))

		closed, err := l.StorageUnregister(ctx, tokenledger.Call{Caller: alice, Deposit: types.U64(1)}, true)
		if err != nil {
			t.Fatalf("forced StorageUnregister: %v", err)
		}
		if !closed {
			t.Error("closed = false, want true")
		}

		wantSupply, err := supply.Sub(types.U64(50))
		if err != nil {
			t.Fatal(err)
		}
		assertSupply(t, l, wantSupply)

		if len(plugin.burns) != 1 {
			t.Fatalf("burn hooks = %d, want 1", len(plugin.burns))
		}
		if got := plugin.burns[0].Amount; !got.Equal(types.U64(50)) {
			t.Errorf("burned %s, want 50", got)
		}
		if len(plugin.closed) != 1 || plugin.closed[0] != alice.String() {
			t.Errorf("closed hooks = %v, want [%s]", plugin.closed, alice)
		}
	})
}

// ──────────────────────────────────────────────────
// Transfers
// ──────────────────────────────────────────────────

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	supply := types.U64(1_000_000)

	setup := func(t *testing.T) (*tokenledger.Ledger, *recordingBank) {
		t.Helper()
		l, bank := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, alice)
		register(t, l, bob)
		fund(t, l, alice, types.U64(100))
		return l, bank
	}

	t.Run("Success", func(t *testing.T) {
		l, bank := setup(t)

		deposit := types.U64(1)
		before := bank.total(t, alice)
		call := tokenledger.Call{Caller: alice, Deposit: deposit}
		if err := l.Transfer(ctx, call, bob, types.U64(30), "lunch"); err != nil {
			t.Fatalf("Transfer: %v", err)
		}

		assertBalance(t, l, alice, types.U64(70))
		assertBalance(t, l, bob, types.U64(30))
		assertSupply(t, l, supply)

		// The attached payment is refunded after commit.
		after := bank.total(t, alice)
		diff, err := after.Sub(before)
		if err != nil {
			t.Fatal(err)
		}
		if !diff.Equal(deposit) {
			t.Errorf("refund after transfer = %s, want %s", diff, deposit)
		}
	})

	t.Run("RequiresPayment", func(t *testing.T) {
		l, _ := setup(t)
		err := l.Transfer(ctx, tokenledger.Call{Caller: alice}, bob, types.U64(1), "")
		if !errors.Is(err, tokenledger.ErrRequiresAttachedPayment) {
			t.Errorf("error = %v, want ErrRequiresAttachedPayment", err)
		}
	})

	t.Run("SelfTransfer", func(t *testing.T) {
		l, _ := setup(t)
		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		if err := l.Transfer(ctx, call, alice, types.U64(1), ""); !errors.Is(err, tokenledger.ErrSelfTransfer) {
			t.Errorf("error = %v, want ErrSelfTransfer", err)
		}
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		l, _ := setup(t)
		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		if err := l.Transfer(ctx, call, bob, types.ZeroBalance(), ""); !errors.Is(err, tokenledger.ErrZeroAmount) {
			t.Errorf("error = %v, want ErrZeroAmount", err)
		}
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		l, _ := setup(t)
		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		err := l.Transfer(ctx, call, bob, types.U64(101), "")
		if !errors.Is(err, tokenledger.ErrInsufficientBalance) {
			t.Fatalf("error = %v, want ErrInsufficientBalance", err)
		}
		// No partial movement.
		assertBalance(t, l, alice, types.U64(100))
		assertBalance(t, l, bob, types.ZeroBalance())
	})

	t.Run("ReceiverNotRegistered", func(t *testing.T) {
		l, bank := setup(t)
		carol := account.MustParse("carol.acme")

		deposit := types.U64(1)
		before := bank.total(t, alice)
		call := tokenledger.Call{Caller: alice, Deposit: deposit}
		err := l.Transfer(ctx, call, carol, types.U64(10), "")
		if !errors.Is(err, tokenledger.ErrReceiverNotRegistered) {
			t.Fatalf("error = %v, want ErrReceiverNotRegistered", err)
		}
		assertBalance(t, l, alice, types.U64(100))

		// A failed call refunds the full payment.
		after := bank.total(t, alice)
		diff, err := after.Sub(before)
		if err != nil {
			t.Fatal(err)
		}
		if !diff.Equal(deposit) {
			t.Errorf("refund after failed transfer = %s, want %s", diff, deposit)
		}
	})

	t.Run("SenderNotRegistered", func(t *testing.T) {
		l, _ := newTestLedger(t)
		initLedger(t, l, supply)
		register(t, l, bob)

		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		if err := l.Transfer(ctx, call, bob, types.U64(10), ""); !errors.Is(err, tokenledger.ErrNotRegistered) {
			t.Errorf("error = %v, want ErrNotRegistered", err)
		}
	})
}

func TestTransferCall(t *testing.T) {
	ctx := context.Background()
	supply := types.U64(1_000_000)

	setup := func(t *testing.T, opts ...tokenledger.Option) *tokenledger.Ledger {
		t.Helper()
		l, _ := newTestLedger(t, opts...)
		initLedger(t, l, supply)
		register(t, l, alice)
		register(t, l, bob)
		fund(t, l, alice, types.U64(100))
		return l
	}

	send := func(t *testing.T, l *tokenledger.Ledger, amount types.Balance) id.TransferID {
		t.Helper()
		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		token, err := l.TransferCall(ctx, call, bob, amount, "", `{"action":"stake"}`)
		if err != nil {
			t.Fatalf("TransferCall: %v", err)
		}
		return token
	}

	t.Run("AppliesImmediately", func(t *testing.T) {
		l := setup(t)
		token := send(t, l, types.U64(40))
		if token.IsNil() {
			t.Fatal("TransferCall returned nil token")
		}
		// The window before resolution observes the full movement.
		assertBalance(t, l, alice, types.U64(60))
		assertBalance(t, l, bob, types.U64(40))
	})

	t.Run("FullUse", func(t *testing.T) {
		l := setup(t)
		token := send(t, l, types.U64(40))

		res, err := l.ResolveTransfer(ctx, token, types.ZeroBalance())
		if err != nil {
			t.Fatalf("ResolveTransfer: %v", err)
		}
		if !res.Used.Equal(types.U64(40)) || !res.Reversed.IsZero() || !res.Burned.IsZero() {
			t.Errorf("resolution = {used %s, reversed %s, burned %s}, want {40, 0, 0}",
				res.Used, res.Reversed, res.Burned)
		}
		assertBalance(t, l, bob, types.U64(40))

		// The continuation is consumed.
		if _, err := l.ResolveTransfer(ctx, token, types.ZeroBalance()); !errors.Is(err, tokenledger.ErrPendingTransferNotFound) {
			t.Errorf("second resolve error = %v, want ErrPendingTransferNotFound", err)
		}
	})

	t.Run("PartialReversal", func(t *testing.T) {
		plugin := &recordingPlugin{}
		l := setup(t, tokenledger.WithPlugin(plugin))
		token := send(t, l, types.U64(40))

		res, err := l.ResolveTransfer(ctx, token, types.U64(15))
		if err != nil {
			t.Fatalf("ResolveTransfer: %v", err)
		}
		if !res.Used.Equal(types.U64(25)) || !res.Reversed.Equal(types.U64(15)) {
			t.Errorf("resolution = {used %s, reversed %s}, want {25, 15}", res.Used, res.Reversed)
		}
		assertBalance(t, l, alice, types.U64(75))
		assertBalance(t, l, bob, types.U64(25))
		assertSupply(t, l, supply)

		if len(plugin.reversals) != 1 {
			t.Fatalf("reversal hooks = %d, want 1", len(plugin.reversals))
		}
		rev := plugin.reversals[0]
		if rev.Sender != bob || rev.Receiver != alice {
			t.Errorf("reversal flows %s -> %s, want %s -> %s", rev.Sender, rev.Receiver, bob, alice)
		}
		if rev.Memo != "refund" {
			t.Errorf("reversal memo = %q, want %q", rev.Memo, "refund")
		}
	})

	t.Run("UnusedClampedToSent", func(t *testing.T) {
		l := setup(t)
		token := send(t, l, types.U64(40))

		// The receiver cannot report more unused than was sent.
		res, err := l.ResolveTransfer(ctx, token, types.U64(500))
		if err != nil {
			t.Fatalf("ResolveTransfer: %v", err)
		}
		if !res.Reversed.Equal(types.U64(40)) || !res.Used.IsZero() {
			t.Errorf("resolution = {used %s, reversed %s}, want {0, 40}", res.Used, res.Reversed)
		}
		assertBalance(t, l, alice, types.U64(100))
		assertBalance(t, l, bob, types.ZeroBalance())
	})

	t.Run("ReversalCappedByReceiverBalance", func(t *testing.T) {
		l := setup(t)
		token := send(t, l, types.U64(40))

		// Bob spends most of the tokens before the resolution lands.
		call := tokenledger.Call{Caller: bob, Deposit: types.U64(1)}
		if err := l.Transfer(ctx, call, owner, types.U64(30), ""); err != nil {
			t.Fatalf("Transfer(bob -> owner): %v", err)
		}

		res, err := l.ResolveTransfer(ctx, token, types.U64(40))
		if err != nil {
			t.Fatalf("ResolveTransfer: %v", err)
		}
		if !res.Reversed.Equal(types.U64(10)) || !res.Used.Equal(types.U64(30)) {
			t.Errorf("resolution = {used %s, reversed %s}, want {30, 10}", res.Used, res.Reversed)
		}
		assertBalance(t, l, alice, types.U64(70))
		assertBalance(t, l, bob, types.ZeroBalance())
	})

	t.Run("SenderUnregisteredBurns", func(t *testing.T) {
		plugin := &recordingPlugin{}
		l := setup(t, tokenledger.WithPlugin(plugin))
		token := send(t, l, types.U64(40))

		// Alice drains her balance and closes her account before resolution.
		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		if err := l.Transfer(ctx, call, owner, types.U64(60), ""); err != nil {
			t.Fatal(err)
		}
		if _, err := l.StorageUnregister(ctx, call, false); err != nil {
			t.Fatalf("StorageUnregister: %v", err)
		}

		res, err := l.ResolveTransfer(ctx, token, types.U64(40))
		if err != nil {
			t.Fatalf("ResolveTransfer: %v", err)
		}
		if !res.Burned.Equal(types.U64(40)) || !res.Reversed.IsZero() {
			t.Errorf("resolution = {reversed %s, burned %s}, want {0, 40}", res.Reversed, res.Burned)
		}
		wantSupply, err := supply.Sub(types.U64(40))
		if err != nil {
			t.Fatal(err)
		}
		assertSupply(t, l, wantSupply)

		if len(plugin.burns) != 1 {
			t.Fatalf("burn hooks = %d, want 1", len(plugin.burns))
		}
	})

	t.Run("ReceiverUnregisteredKeepsAll", func(t *testing.T) {
		l := setup(t)
		token := send(t, l, types.U64(40))

		// Bob drains and closes before resolution: nothing left to claw back.
		call := tokenledger.Call{Caller: bob, Deposit: types.U64(1)}
		if err := l.Transfer(ctx, call, owner, types.U64(40), ""); err != nil {
			t.Fatal(err)
		}
		if _, err := l.StorageUnregister(ctx, call, false); err != nil {
			t.Fatalf("StorageUnregister: %v", err)
		}

		res, err := l.ResolveTransfer(ctx, token, types.U64(40))
		if err != nil {
			t.Fatalf("ResolveTransfer: %v", err)
		}
		if !res.Used.Equal(types.U64(40)) || !res.Reversed.IsZero() || !res.Burned.IsZero() {
			t.Errorf("resolution = {used %s, reversed %s, burned %s}, want {40, 0, 0}",
				res.Used, res.Reversed, res.Burned)
		}
	})

	t.Run("UnknownToken", func(t *testing.T) {
		l := setup(t)
		_, err := l.ResolveTransfer(ctx, id.NewTransferID(), types.ZeroBalance())
		if !errors.Is(err, tokenledger.ErrPendingTransferNotFound) {
			t.Errorf("error = %v, want ErrPendingTransferNotFound", err)
		}
	})

	t.Run("FailedTransferLeavesNoPending", func(t *testing.T) {
		l := setup(t)
		call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
		if _, err := l.TransferCall(ctx, call, bob, types.U64(999), "", ""); !errors.Is(err, tokenledger.ErrInsufficientBalance) {
			t.Fatalf("error = %v, want ErrInsufficientBalance", err)
		}
		assertBalance(t, l, alice, types.U64(100))
	})
}

// ──────────────────────────────────────────────────
// Journal
// ──────────────────────────────────────────────────

func TestEventJournal(t *testing.T) {
	ctx := context.Background()
	supply := types.U64(1_000_000)

	// Short flush interval so Stop's final flush is the only sync point we need.
	l, _ := newTestLedger(t, tokenledger.WithEventConfig(100, 50*time.Millisecond))
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	initLedger(t, l, supply)
	register(t, l, alice)
	register(t, l, bob)
	fund(t, l, alice, types.U64(100))

	call := tokenledger.Call{Caller: alice, Deposit: types.U64(1)}
	if err := l.Transfer(ctx, call, bob, types.U64(25), "memo-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.StorageUnregister(ctx, tokenledger.Call{Caller: bob, Deposit: types.U64(1)}, true); err != nil {
		t.Fatal(err)
	}

	// Stop drains the buffer and flushes before closing the store.
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	all, err := l.Events(ctx, event.QueryOpts{})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	// mint, transfer(owner->alice), transfer(alice->bob), burn, account_close.
	if len(all) != 5 {
		t.Fatalf("journal length = %d, want 5", len(all))
	}
	if all[0].Kind != event.KindMint {
		t.Errorf("first event kind = %s, want %s", all[0].Kind, event.KindMint)
	}
	if all[0].Memo != "Initial tokens supply is minted" {
		t.Errorf("mint memo = %q", all[0].Memo)
	}

	mints, err := l.Events(ctx, event.QueryOpts{Kind: event.KindMint})
	if err != nil {
		t.Fatal(err)
	}
	if len(mints) != 1 {
		t.Errorf("mint events = %d, want 1", len(mints))
	}

	// Bob appears as transfer receiver, burn owner and close owner.
	bobEvents, err := l.Events(ctx, event.QueryOpts{Account: bob})
	if err != nil {
		t.Fatal(err)
	}
	if len(bobEvents) != 3 {
		t.Errorf("events touching bob = %d, want 3", len(bobEvents))
	}

	limited, err := l.Events(ctx, event.QueryOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited listing = %d events, want 2", len(limited))
	}
}

func TestPluginHooks(t *testing.T) {
	supply := types.U64(1_000)

	plugin := &recordingPlugin{}
	l, _ := newTestLedger(t, tokenledger.WithPlugin(plugin))
	initLedger(t, l, supply)

	if len(plugin.mints) != 1 {
		t.Fatalf("mint hooks after Init = %d, want 1", len(plugin.mints))
	}
	if !plugin.mints[0].Amount.Equal(supply) {
		t.Errorf("minted %s, want %s", plugin.mints[0].Amount, supply)
	}
	if len(plugin.registered) != 1 || plugin.registered[0] != owner.String() {
		t.Errorf("registered hooks = %v, want [%s]", plugin.registered, owner)
	}

	register(t, l, alice)
	if len(plugin.registered) != 2 {
		t.Fatalf("registered hooks = %d, want 2", len(plugin.registered))
	}

	fund(t, l, alice, types.U64(10))
	if len(plugin.transfers) != 1 {
		t.Fatalf("transfer hooks = %d, want 1", len(plugin.transfers))
	}
	got := plugin.transfers[0]
	if got.Sender != owner || got.Receiver != alice || !got.Amount.Equal(types.U64(10)) {
		t.Errorf("transfer hook = %s -> %s amount %s", got.Sender, got.Receiver, got.Amount)
	}
}
