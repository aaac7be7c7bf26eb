package tokenledger_test

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"testing"
	"time"

	tokenledger "github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/store/memory"
	"github.com/xraph/tokenledger/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize ledger with journal tuning
		l := tokenledger.New(store,
			tokenledger.WithLogger(slog.Default()),
			tokenledger.WithEventConfig(100, 5*time.Second),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Mint the initial supply into the owner account, exactly once
		treasury := account.MustParse("treasury.acme")
		if err := l.Init(ctx, treasury, tokenledger.MustParseBalance("1000000000000000000000000")); err != nil {
			t.Fatal(err)
		}

		// Register an account by staking its storage cost
		bounds, err := l.StorageBalanceBounds(ctx)
		if err != nil {
			t.Fatal(err)
		}
		user := account.MustParse("alice.acme")
		if _, err := l.StorageDeposit(ctx, tokenledger.Call{
			Caller:  user,
			Deposit: bounds.Min,
		}, nil, false); err != nil {
			t.Fatal(err)
		}

		// Transfer tokens (requires a one-unit attached payment)
		if err := l.Transfer(ctx, tokenledger.Call{
			Caller:  treasury,
			Deposit: tokenledger.U64(1),
		}, user, tokenledger.U64(100), "welcome"); err != nil {
			t.Fatal(err)
		}

		// Transfer-and-notify: commit first, settle later
		token, err := l.TransferCall(ctx, tokenledger.Call{
			Caller:  user,
			Deposit: tokenledger.U64(1),
		}, treasury, tokenledger.U64(40), "", `{"action":"stake"}`)
		if err != nil {
			t.Fatal(err)
		}

		// The receiver reports 10 units unused; they flow back to the sender
		res, err := l.ResolveTransfer(ctx, token, tokenledger.U64(10))
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("transfer settled: used=%s reversed=%s\n", res.Used, res.Reversed)

		// Query balances
		balance, err := l.BalanceOf(ctx, user)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("balance: %s\n", balance.String())

		supply, err := l.TotalSupply(ctx)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("total supply: %s\n", supply.String())
	})

	// Test Balance type examples
	t.Run("BalanceExamples", func(t *testing.T) {
		// Constructors
		_ = types.U64(100)
		_ = types.ZeroBalance()
		_ = types.MustParseBalance("340282366920938463463374607431768211455") // 2^128 - 1

		// Checked arithmetic
		b1 := types.U64(100)
		b2 := types.U64(200)
		if _, err := b1.Add(b2); err != nil {
			t.Fatal(err)
		}
		if _, err := b2.Sub(b1); err != nil {
			t.Fatal(err)
		}
		if _, err := b1.Sub(b2); !errors.Is(err, types.ErrBalanceUnderflow) {
			t.Fatalf("expected underflow, got %v", err)
		}

		// Comparison
		if b1.Less(b2) {
			// b1 is less than b2
		}
		_ = types.Min(b1, b2)

		// Formatting
		_ = b1.String() // "100"
	})
}
