// Package audithook bridges token ledger lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnMint              = (*Extension)(nil)
	_ plugin.OnTransfer          = (*Extension)(nil)
	_ plugin.OnTransferReversed  = (*Extension)(nil)
	_ plugin.OnBurn              = (*Extension)(nil)
	_ plugin.OnAccountRegistered = (*Extension)(nil)
	_ plugin.OnAccountClosed     = (*Extension)(nil)
	_ plugin.OnRefundScheduled   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges token ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Token lifecycle hooks
// ──────────────────────────────────────────────────

// OnMint implements plugin.OnMint.
func (e *Extension) OnMint(ctx context.Context, evt interface{}) error {
	owner, amount, memo := unpackEvent(evt)
	return e.record(ctx, ActionTokenMinted, SeverityInfo, OutcomeSuccess,
		ResourceToken, owner, CategoryToken, nil,
		"owner", owner,
		"amount", amount,
		"memo", memo,
	)
}

// OnTransfer implements plugin.OnTransfer.
func (e *Extension) OnTransfer(ctx context.Context, evt interface{}) error {
	meta := []any{"event", "transfer"}
	var resourceID string
	if te, ok := evt.(*event.Event); ok {
		resourceID = te.Sender.String()
		meta = []any{
			"sender", te.Sender.String(),
			"receiver", te.Receiver.String(),
			"amount", te.Amount.String(),
			"memo", te.Memo,
		}
	}
	return e.record(ctx, ActionTokenTransferred, SeverityInfo, OutcomeSuccess,
		ResourceToken, resourceID, CategoryToken, nil, meta...)
}

// OnTransferReversed implements plugin.OnTransferReversed.
func (e *Extension) OnTransferReversed(ctx context.Context, evt interface{}) error {
	meta := []any{"event", "transfer_reversed"}
	var resourceID string
	if te, ok := evt.(*event.Event); ok {
		resourceID = te.Receiver.String()
		meta = []any{
			"reversed_from", te.Sender.String(),
			"reversed_to", te.Receiver.String(),
			"amount", te.Amount.String(),
		}
	}
	return e.record(ctx, ActionTransferReversed, SeverityWarning, OutcomeSuccess,
		ResourceToken, resourceID, CategoryToken, nil, meta...)
}

// OnBurn implements plugin.OnBurn.
func (e *Extension) OnBurn(ctx context.Context, evt interface{}) error {
	owner, amount, memo := unpackEvent(evt)
	return e.record(ctx, ActionTokenBurned, SeverityWarning, OutcomeSuccess,
		ResourceToken, owner, CategoryToken, nil,
		"owner", owner,
		"amount", amount,
		"memo", memo,
	)
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountRegistered implements plugin.OnAccountRegistered.
func (e *Extension) OnAccountRegistered(ctx context.Context, accountID string) error {
	return e.record(ctx, ActionAccountRegistered, SeverityInfo, OutcomeSuccess,
		ResourceAccount, accountID, CategoryAccount, nil,
		"account_id", accountID,
	)
}

// OnAccountClosed implements plugin.OnAccountClosed.
func (e *Extension) OnAccountClosed(ctx context.Context, accountID, balance string) error {
	return e.record(ctx, ActionAccountClosed, SeverityInfo, OutcomeSuccess,
		ResourceAccount, accountID, CategoryAccount, nil,
		"account_id", accountID,
		"balance_at_close", balance,
	)
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnRefundScheduled implements plugin.OnRefundScheduled.
func (e *Extension) OnRefundScheduled(ctx context.Context, accountID, amount string) error {
	return e.record(ctx, ActionRefundScheduled, SeverityInfo, OutcomeSuccess,
		ResourceRefund, accountID, CategoryPayment, nil,
		"account_id", accountID,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// unpackEvent extracts owner, amount and memo from a journal event payload.
func unpackEvent(evt interface{}) (owner, amount, memo string) {
	te, ok := evt.(*event.Event)
	if !ok {
		return "", "", ""
	}
	return te.Owner.String(), te.Amount.String(), te.Memo
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
