package audithook

// Action constants for audit events.
const (
	// Token actions
	ActionTokenMinted      = "token.minted"
	ActionTokenTransferred = "token.transferred"
	ActionTransferReversed = "token.transfer_reversed"
	ActionTokenBurned      = "token.burned"

	// Account actions
	ActionAccountRegistered = "account.registered"
	ActionAccountClosed     = "account.closed"

	// Payment actions
	ActionRefundScheduled = "storage.refunded"

	// Journal actions
	ActionEventsFlushed = "events.flushed"
)

// Resource constants for audit events.
const (
	ResourceToken   = "token"
	ResourceAccount = "account"
	ResourceRefund  = "refund"
	ResourceJournal = "journal"
)

// Category constants for audit events.
const (
	CategoryToken   = "token"
	CategoryAccount = "account"
	CategoryPayment = "payment"
	CategoryJournal = "journal"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
