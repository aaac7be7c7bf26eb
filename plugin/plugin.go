// Package plugin provides an extensible plugin system for the token ledger.
// Plugins can hook into lifecycle events to extend functionality; hooks run
// after the triggering mutation has committed and can never roll it back.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Token lifecycle hooks
// ──────────────────────────────────────────────────

// OnMint is called when tokens are minted. evt is an *event.Event.
type OnMint interface {
	Plugin
	OnMint(ctx context.Context, evt interface{}) error
}

// OnTransfer is called when a transfer commits. evt is an *event.Event.
type OnTransfer interface {
	Plugin
	OnTransfer(ctx context.Context, evt interface{}) error
}

// OnTransferReversed is called when a pending transfer is resolved with a
// compensating reversal. evt is the reversal *event.Event.
type OnTransferReversed interface {
	Plugin
	OnTransferReversed(ctx context.Context, evt interface{}) error
}

// OnBurn is called when tokens are burned. evt is an *event.Event.
type OnBurn interface {
	Plugin
	OnBurn(ctx context.Context, evt interface{}) error
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountRegistered is called when an account entry is created.
type OnAccountRegistered interface {
	Plugin
	OnAccountRegistered(ctx context.Context, accountID string) error
}

// OnAccountClosed is called when an account entry is removed. balance is the
// base-10 string of the balance held at closing time.
type OnAccountClosed interface {
	Plugin
	OnAccountClosed(ctx context.Context, accountID, balance string) error
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnRefundScheduled is called when the ledger schedules an outbound payment
// back to an account. amount is the base-10 string of the refund.
type OnRefundScheduled interface {
	Plugin
	OnRefundScheduled(ctx context.Context, accountID, amount string) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnEventsFlushed is called when buffered journal events are flushed to the
// store.
type OnEventsFlushed interface {
	Plugin
	OnEventsFlushed(ctx context.Context, count int, elapsed time.Duration) error
}
