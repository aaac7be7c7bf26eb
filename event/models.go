// Package event defines the structured observability records the ledger
// emits alongside committed mutations. Events are append-only and consumed
// by external indexers; they never feed back into ledger state.
package event

import (
	"time"

	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Standard and Version identify the event envelope format, so indexers can
// distinguish these records from other event families.
const (
	Standard = "ft"
	Version  = "1.0.0"
)

// Kind discriminates the event payload.
type Kind string

// Event kinds.
const (
	KindMint         Kind = "ft_mint"
	KindTransfer     Kind = "ft_transfer"
	KindBurn         Kind = "ft_burn"
	KindAccountClose Kind = "account_close"
)

// Event is a single journal record. Exactly one committed mutation produces
// each event; a failed call produces none.
type Event struct {
	ID        id.EventID `json:"id"`
	Standard  string     `json:"standard"`
	Version   string     `json:"version"`
	Kind      Kind       `json:"event"`
	Timestamp time.Time  `json:"timestamp"`

	// Owner is the minting/burning/closing account for mint, burn and
	// account_close events.
	Owner account.ID `json:"owner_id,omitempty"`

	// Sender and Receiver are set on transfer events.
	Sender   account.ID `json:"old_owner_id,omitempty"`
	Receiver account.ID `json:"new_owner_id,omitempty"`

	Amount types.Balance `json:"amount"`
	Memo   string        `json:"memo,omitempty"`
}

// NewMint builds a mint event.
func NewMint(owner account.ID, amount types.Balance, memo string) *Event {
	return newEvent(KindMint, &Event{Owner: owner, Amount: amount, Memo: memo})
}

// NewTransfer builds a transfer event.
func NewTransfer(sender, receiver account.ID, amount types.Balance, memo string) *Event {
	return newEvent(KindTransfer, &Event{Sender: sender, Receiver: receiver, Amount: amount, Memo: memo})
}

// NewBurn builds a burn event.
func NewBurn(owner account.ID, amount types.Balance, memo string) *Event {
	return newEvent(KindBurn, &Event{Owner: owner, Amount: amount, Memo: memo})
}

// NewAccountClose builds an account-close event. Amount is the balance the
// account held at closing time (zero unless the close was forced).
func NewAccountClose(owner account.ID, amount types.Balance) *Event {
	return newEvent(KindAccountClose, &Event{Owner: owner, Amount: amount})
}

func newEvent(kind Kind, e *Event) *Event {
	e.ID = id.NewEventID()
	e.Standard = Standard
	e.Version = Version
	e.Kind = kind
	e.Timestamp = time.Now().UTC()
	return e
}
