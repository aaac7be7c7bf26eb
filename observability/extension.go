// Package observability provides a metrics extension for the token ledger
// that records lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/tokenledger/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnMint              = (*MetricsExtension)(nil)
	_ plugin.OnTransfer          = (*MetricsExtension)(nil)
	_ plugin.OnTransferReversed  = (*MetricsExtension)(nil)
	_ plugin.OnBurn              = (*MetricsExtension)(nil)
	_ plugin.OnAccountRegistered = (*MetricsExtension)(nil)
	_ plugin.OnAccountClosed     = (*MetricsExtension)(nil)
	_ plugin.OnRefundScheduled   = (*MetricsExtension)(nil)
	_ plugin.OnEventsFlushed     = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a ledger plugin to automatically track token metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Token metrics
	Mints             Counter
	Transfers         Counter
	TransfersReversed Counter
	Burns             Counter

	// Account metrics
	AccountsRegistered Counter
	AccountsClosed     Counter

	// Payment metrics
	RefundsScheduled Counter

	// Journal metrics
	EventsFlushed     Counter
	EventBatchSize    Histogram
	EventFlushLatency Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Token metrics
		Mints:             factory.Counter("tokenledger.mint"),
		Transfers:         factory.Counter("tokenledger.transfer"),
		TransfersReversed: factory.Counter("tokenledger.transfer.reversed"),
		Burns:             factory.Counter("tokenledger.burn"),

		// Account metrics
		AccountsRegistered: factory.Counter("tokenledger.account.registered"),
		AccountsClosed:     factory.Counter("tokenledger.account.closed"),

		// Payment metrics
		RefundsScheduled: factory.Counter("tokenledger.refund.scheduled"),

		// Journal metrics
		EventsFlushed:     factory.Counter("tokenledger.events.flushed"),
		EventBatchSize:    factory.Histogram("tokenledger.events.batch.size"),
		EventFlushLatency: factory.Histogram("tokenledger.events.flush.latency_ms"),

		// Error metrics
		StoreErrors:  factory.Counter("tokenledger.store.errors"),
		PluginErrors: factory.Counter("tokenledger.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Token lifecycle hooks
// ──────────────────────────────────────────────────

// OnMint implements plugin.OnMint.
func (m *MetricsExtension) OnMint(_ context.Context, _ interface{}) error {
	m.Mints.Inc()
	return nil
}

// OnTransfer implements plugin.OnTransfer.
func (m *MetricsExtension) OnTransfer(_ context.Context, _ interface{}) error {
	m.Transfers.Inc()
	return nil
}

// OnTransferReversed implements plugin.OnTransferReversed.
func (m *MetricsExtension) OnTransferReversed(_ context.Context, _ interface{}) error {
	m.TransfersReversed.Inc()
	return nil
}

// OnBurn implements plugin.OnBurn.
func (m *MetricsExtension) OnBurn(_ context.Context, _ interface{}) error {
	m.Burns.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountRegistered implements plugin.OnAccountRegistered.
func (m *MetricsExtension) OnAccountRegistered(_ context.Context, _ string) error {
	m.AccountsRegistered.Inc()
	return nil
}

// OnAccountClosed implements plugin.OnAccountClosed.
func (m *MetricsExtension) OnAccountClosed(_ context.Context, _, _ string) error {
	m.AccountsClosed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnRefundScheduled implements plugin.OnRefundScheduled.
func (m *MetricsExtension) OnRefundScheduled(_ context.Context, _, _ string) error {
	m.RefundsScheduled.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnEventsFlushed implements plugin.OnEventsFlushed.
func (m *MetricsExtension) OnEventsFlushed(_ context.Context, count int, elapsed time.Duration) error {
	m.EventsFlushed.Add(float64(count))
	m.EventBatchSize.Observe(float64(count))
	m.EventFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
