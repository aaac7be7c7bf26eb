package tokenledger

import (
	"errors"
	"fmt"

	"github.com/xraph/tokenledger/types"
)

// Sentinel errors for common failure scenarios. Every failure aborts the
// enclosing call with no partial ledger mutation.
var (
	// Lifecycle errors
	ErrNotInitialized     = errors.New("tokenledger: ledger not initialized")
	ErrAlreadyInitialized = errors.New("tokenledger: ledger already initialized")

	// Validation errors — rejected before any state read
	ErrInvalidAccountID        = errors.New("tokenledger: invalid account id")
	ErrZeroAmount              = errors.New("tokenledger: amount must be positive")
	ErrSelfTransfer            = errors.New("tokenledger: sender and receiver are the same account")
	ErrRequiresAttachedPayment = errors.New("tokenledger: call requires an attached payment of at least one unit")

	// Precondition errors — checked before mutation
	ErrNotRegistered           = errors.New("tokenledger: account not registered")
	ErrAlreadyRegistered       = errors.New("tokenledger: account already registered")
	ErrReceiverNotRegistered   = errors.New("tokenledger: receiver account not registered")
	ErrInsufficientBalance     = errors.New("tokenledger: insufficient balance")
	ErrNonZeroBalance          = errors.New("tokenledger: account holds a positive balance; pass force to burn it")
	ErrPendingTransferNotFound = errors.New("tokenledger: pending transfer not found")

	// Resource errors — checked before commit, full refund of the payment
	ErrInsufficientDeposit        = errors.New("tokenledger: attached deposit does not cover storage cost")
	ErrInsufficientStorageBalance = errors.New("tokenledger: amount exceeds available storage balance")

	// Arithmetic errors — defensively checked, fatal for the call
	ErrBalanceOverflow  = types.ErrBalanceOverflow
	ErrBalanceUnderflow = types.ErrBalanceUnderflow

	// Store errors
	ErrNotFound        = errors.New("tokenledger: not found")
	ErrAlreadyExists   = errors.New("tokenledger: already exists")
	ErrStoreNotReady   = errors.New("tokenledger: store not ready")
	ErrStoreClosed     = errors.New("tokenledger: store is closed")
	ErrMigrationFailed = errors.New("tokenledger: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("tokenledger: validation failed for %s: %s", e.Field, e.Message)
}

// IsValidationError returns true if the error was raised before any state
// was read: malformed input or a structurally impossible request.
func IsValidationError(err error) bool {
	var ve ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrInvalidAccountID) ||
		errors.Is(err, ErrZeroAmount) ||
		errors.Is(err, ErrSelfTransfer) ||
		errors.Is(err, ErrRequiresAttachedPayment)
}

// IsPreconditionError returns true if the error reflects ledger state that
// does not admit the request. State is unchanged.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrReceiverNotRegistered) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrNonZeroBalance) ||
		errors.Is(err, ErrPendingTransferNotFound) ||
		errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, ErrAlreadyInitialized)
}

// IsResourceError returns true if the attached payment did not cover the
// storage the call would consume. The full payment is scheduled for refund.
func IsResourceError(err error) bool {
	return errors.Is(err, ErrInsufficientDeposit) ||
		errors.Is(err, ErrInsufficientStorageBalance)
}

// IsArithmeticError returns true for overflow/underflow failures. These
// cannot occur while the total-supply invariant holds but are checked on
// every mutation path.
func IsArithmeticError(err error) bool {
	return errors.Is(err, ErrBalanceOverflow) ||
		errors.Is(err, ErrBalanceUnderflow)
}

// IsNotFound returns true if the error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrReceiverNotRegistered) ||
		errors.Is(err, ErrPendingTransferNotFound)
}
