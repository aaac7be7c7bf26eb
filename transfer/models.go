// Package transfer defines the pending-transfer continuation used by the
// two-phase transfer-and-notify protocol.
//
// Phase 1 commits the balance movement and persists a Pending record; the
// engine returns its ID as a continuation token. Phase 2, invoked once the
// receiver's acceptance result is known, resolves the record and applies any
// compensating reversal. The window between the phases is observable: queries
// see the transfer as fully applied until a reversal lands.
package transfer

import (
	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Pending is a committed transfer awaiting its acceptance result.
type Pending struct {
	types.Entity

	ID       id.TransferID `json:"id"`
	Sender   account.ID    `json:"sender_id"`
	Receiver account.ID    `json:"receiver_id"`
	Amount   types.Balance `json:"amount"`
	Memo     string        `json:"memo,omitempty"`

	// Payload is the opaque notification payload handed to the receiver's
	// acceptance callback. The ledger never interprets it.
	Payload string `json:"payload,omitempty"`
}

// Resolution is the outcome of resolving a pending transfer.
type Resolution struct {
	// Used is the amount the receiver kept.
	Used types.Balance `json:"used"`

	// Reversed is the amount credited back to the sender.
	Reversed types.Balance `json:"reversed"`

	// Burned is the amount destroyed because the sender was no longer
	// registered when the reversal landed.
	Burned types.Balance `json:"burned"`
}
