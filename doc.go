// Package tokenledger provides a fungible-token ledger engine for Go applications.
//
// Tokenledger is designed as a library, not a service. Import it directly into
// your Go application and drive it from whatever transport you already run. It
// provides:
//
//   - A registry of account balances with a maintained total supply
//   - 128-bit checked balance arithmetic with a base-10 string wire form
//   - Storage-staking account registration with deterministic pricing
//   - Simple transfers and a two-phase transfer-and-notify protocol with
//     compensating reversals
//   - An append-only event journal with batched ingestion
//   - Pluggable hooks for observability and audit integration
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/xraph/tokenledger"
//	    "github.com/xraph/tokenledger/store/postgres"
//	)
//
//	// Initialize store
//	store, err := postgres.New(databaseURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create ledger
//	l := tokenledger.New(store)
//
//	// Start the ledger (begins background workers)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	// Mint the initial supply into the owner account, exactly once
//	owner := account.MustParse("treasury.acme")
//	if err := l.Init(ctx, owner, tokenledger.MustParseBalance("1000000000")); err != nil {
//	    log.Fatal(err)
//	}
//
// # Core Concepts
//
// Accounts must be registered before they can hold tokens. Registration
// stakes a fixed storage deposit out of the attached payment; unregistering
// releases it:
//
//	bounds, _ := l.StorageBalanceBounds(ctx)
//	_, err := l.StorageDeposit(ctx, tokenledger.Call{
//	    Caller:  alice,
//	    Deposit: bounds.Min,
//	}, nil, false)
//
// Transfers move tokens between registered accounts. Every transfer demands
// an attached payment of at least one unit as proof of intent, refunded after
// the transfer commits:
//
//	err := l.Transfer(ctx, tokenledger.Call{
//	    Caller:  alice,
//	    Deposit: tokenledger.U64(1),
//	}, bob, tokenledger.U64(100), "coffee")
//
// Transfer-and-notify commits the movement first, then lets the receiver's
// acceptance result claw back whatever was not used:
//
//	token, err := l.TransferCall(ctx, call, bob, amount, "", payload)
//	// ... receiver reports 30 units unused ...
//	res, err := l.ResolveTransfer(ctx, token, tokenledger.U64(30))
//
// # Invariants
//
// The total supply always equals the sum of all registered balances. Every
// mutation either commits completely or leaves the ledger untouched; balance
// arithmetic is checked and an overflow aborts the call before any write.
//
// All balances use 128-bit unsigned integer arithmetic and serialize as
// base-10 strings, so amounts survive JSON encoders that mangle large
// numbers.
//
// # Integration
//
// Tokenledger integrates with the Forgery ecosystem:
//
//   - Forge: extension wiring and configuration
//   - Chronicle: audit trail for mints, transfers and burns
//   - go-utils: production metrics and observability
//
// # TypeID
//
// Pending transfers and journal events use TypeID for globally unique,
// type-safe identifiers:
//
//	xfer_01h2xcejqtf2nbrexx3vqjhp41  // Pending transfer token
//	evt_01h455vb4pex5vsknk084sn02q   // Journal event ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package tokenledger
