// Package stake models the economics that tie account registration to
// storage consumption: a byte price, a fixed per-account storage footprint,
// and the storage-balance views exposed to callers.
package stake

import "github.com/xraph/tokenledger/types"

// Default pricing. One account entry is priced at its worst-case footprint
// (a maximum-length identifier plus a 16-byte balance plus entry overhead),
// so the registration deposit never depends on the identifier actually used.
const (
	// DefaultBytePrice is the payment amount charged per byte of storage.
	DefaultBytePrice = 10_000_000_000_000_000_000 // 1e19

	// DefaultBytesPerAccount is the storage footprint of one registered
	// account entry.
	DefaultBytesPerAccount = 125

	// DefaultBaseBytes is the footprint of the ledger's fixed state
	// (supply counter, init marker) independent of account count.
	DefaultBaseBytes = 256
)

// Pricing converts storage-byte deltas into payment amounts. It is
// configuration supplied by the environment; the ledger never derives it.
type Pricing struct {
	BytePrice       uint64 `json:"byte_price"`
	BytesPerAccount uint64 `json:"bytes_per_account"`
	BaseBytes       uint64 `json:"base_bytes"`
}

// DefaultPricing returns the default pricing model.
func DefaultPricing() Pricing {
	return Pricing{
		BytePrice:       DefaultBytePrice,
		BytesPerAccount: DefaultBytesPerAccount,
		BaseBytes:       DefaultBaseBytes,
	}
}

// UsageBytes returns the deterministic storage usage for a ledger holding
// accounts registered entries.
func (p Pricing) UsageBytes(accounts uint64) uint64 {
	return p.BaseBytes + p.BytesPerAccount*accounts
}

// Cost converts a byte count into a payment amount.
func (p Pricing) Cost(bytes uint64) (types.Balance, error) {
	return types.U64(bytes).MulUint64(p.BytePrice)
}

// AccountCost returns the payment amount staked by one registered account.
func (p Pricing) AccountCost() (types.Balance, error) {
	return p.Cost(p.BytesPerAccount)
}

// Bounds reports the deposit range accepted by registration. Min and Max are
// equal because every account entry has the same fixed footprint.
type Bounds struct {
	Min types.Balance `json:"min"`
	Max types.Balance `json:"max"`
}

// Balance is the storage-balance view for one registered account. Available
// is always zero in this model: the whole stake backs the account's entry.
type Balance struct {
	Total     types.Balance `json:"total"`
	Available types.Balance `json:"available"`
}
