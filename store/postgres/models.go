package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tokenledger/account"
	"github.com/xraph/tokenledger/event"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/transfer"
	"github.com/xraph/tokenledger/types"
)

// Balances travel as base-10 strings; TEXT columns keep the full 128-bit
// range without driver-side numeric conversion.

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:tokenledger_accounts"`

	ID        string    `grove:"id,pk"`
	Balance   string    `grove:"balance"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toAccountModel(e *account.Entry) *accountModel {
	return &accountModel{
		ID:        e.ID.String(),
		Balance:   e.Balance.String(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) (*account.Entry, error) {
	balance, err := types.ParseBalance(m.Balance)
	if err != nil {
		return nil, err
	}
	return &account.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:      account.ID(m.ID),
		Balance: balance,
	}, nil
}

// ==================== State models ====================

// stateModel is a singleton row: the ledger is initialized iff it exists.
type stateModel struct {
	grove.BaseModel `grove:"table:tokenledger_state"`

	ID          int       `grove:"id,pk"`
	Owner       string    `grove:"owner"`
	TotalSupply string    `grove:"total_supply"`
	CreatedAt   time.Time `grove:"created_at"`
	UpdatedAt   time.Time `grove:"updated_at"`
}

// ==================== Pending transfer models ====================

type pendingTransferModel struct {
	grove.BaseModel `grove:"table:tokenledger_pending_transfers"`

	ID        string    `grove:"id,pk"`
	Sender    string    `grove:"sender"`
	Receiver  string    `grove:"receiver"`
	Amount    string    `grove:"amount"`
	Memo      string    `grove:"memo"`
	Payload   string    `grove:"payload"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toPendingTransferModel(p *transfer.Pending) *pendingTransferModel {
	return &pendingTransferModel{
		ID:        p.ID.String(),
		Sender:    p.Sender.String(),
		Receiver:  p.Receiver.String(),
		Amount:    p.Amount.String(),
		Memo:      p.Memo,
		Payload:   p.Payload,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromPendingTransferModel(m *pendingTransferModel) (*transfer.Pending, error) {
	token, err := id.ParseTransferID(m.ID)
	if err != nil {
		return nil, err
	}
	amount, err := types.ParseBalance(m.Amount)
	if err != nil {
		return nil, err
	}
	return &transfer.Pending{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       token,
		Sender:   account.ID(m.Sender),
		Receiver: account.ID(m.Receiver),
		Amount:   amount,
		Memo:     m.Memo,
		Payload:  m.Payload,
	}, nil
}

// ==================== Event models ====================

type eventModel struct {
	grove.BaseModel `grove:"table:tokenledger_events"`

	ID        string    `grove:"id,pk"`
	Standard  string    `grove:"standard"`
	Version   string    `grove:"version"`
	Kind      string    `grove:"event"`
	Timestamp time.Time `grove:"timestamp"`
	Owner     string    `grove:"owner_id"`
	Sender    string    `grove:"old_owner_id"`
	Receiver  string    `grove:"new_owner_id"`
	Amount    string    `grove:"amount"`
	Memo      string    `grove:"memo"`
}

func toEventModel(e *event.Event) *eventModel {
	return &eventModel{
		ID:        e.ID.String(),
		Standard:  e.Standard,
		Version:   e.Version,
		Kind:      string(e.Kind),
		Timestamp: e.Timestamp,
		Owner:     e.Owner.String(),
		Sender:    e.Sender.String(),
		Receiver:  e.Receiver.String(),
		Amount:    e.Amount.String(),
		Memo:      e.Memo,
	}
}

func fromEventModel(m *eventModel) (*event.Event, error) {
	eventID, err := id.ParseEventID(m.ID)
	if err != nil {
		return nil, err
	}
	amount, err := types.ParseBalance(m.Amount)
	if err != nil {
		return nil, err
	}
	return &event.Event{
		ID:        eventID,
		Standard:  m.Standard,
		Version:   m.Version,
		Kind:      event.Kind(m.Kind),
		Timestamp: m.Timestamp,
		Owner:     account.ID(m.Owner),
		Sender:    account.ID(m.Sender),
		Receiver:  account.ID(m.Receiver),
		Amount:    amount,
		Memo:      m.Memo,
	}, nil
}
