// Package types provides common value types used across the token ledger.
package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

// Balance is an unsigned 128-bit token amount.
// All arithmetic is checked — an operation that would overflow or underflow
// returns an error instead of wrapping.
//
// The wire form is a base-10 string ("1000000000000000000000000"), matching
// how 128-bit amounts travel in JSON. The zero value is a zero balance and
// ready to use.
type Balance struct {
	hi, lo uint64
}

// Arithmetic errors returned by the checked operations.
var (
	ErrBalanceOverflow  = errors.New("types: balance overflow")
	ErrBalanceUnderflow = errors.New("types: balance underflow")
)

// maxBalance is 2^128 - 1 as a big.Int, used by the string codec.
var maxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ZeroBalance returns the zero balance.
func ZeroBalance() Balance { return Balance{} }

// U64 creates a Balance from a uint64.
func U64(v uint64) Balance { return Balance{lo: v} }

// MaxBalance returns the largest representable balance (2^128 - 1).
func MaxBalance() Balance { return Balance{hi: ^uint64(0), lo: ^uint64(0)} }

// ParseBalance parses a base-10 string into a Balance.
func ParseBalance(s string) (Balance, error) {
	if s == "" {
		return Balance{}, fmt.Errorf("types: parse balance: empty string")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return Balance{}, fmt.Errorf("types: parse balance %q: not an unsigned base-10 integer", s)
	}
	if n.Cmp(maxBalance) > 0 {
		return Balance{}, fmt.Errorf("types: parse balance %q: exceeds 128 bits", s)
	}
	var b Balance
	b.lo = n.Uint64()
	b.hi = new(big.Int).Rsh(n, 64).Uint64()
	return b, nil
}

// MustParseBalance is like ParseBalance but panics on error.
// Use for hardcoded amounts.
func MustParseBalance(s string) Balance {
	b, err := ParseBalance(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Arithmetic operations

// Add returns b + other, or ErrBalanceOverflow if the sum exceeds 128 bits.
func (b Balance) Add(other Balance) (Balance, error) {
	lo, carry := bits.Add64(b.lo, other.lo, 0)
	hi, carry := bits.Add64(b.hi, other.hi, carry)
	if carry != 0 {
		return Balance{}, ErrBalanceOverflow
	}
	return Balance{hi: hi, lo: lo}, nil
}

// Sub returns b - other, or ErrBalanceUnderflow if other > b.
func (b Balance) Sub(other Balance) (Balance, error) {
	lo, borrow := bits.Sub64(b.lo, other.lo, 0)
	hi, borrow := bits.Sub64(b.hi, other.hi, borrow)
	if borrow != 0 {
		return Balance{}, ErrBalanceUnderflow
	}
	return Balance{hi: hi, lo: lo}, nil
}

// MulUint64 returns b × m, or ErrBalanceOverflow if the product exceeds
// 128 bits. Used to convert storage bytes into payment amounts.
func (b Balance) MulUint64(m uint64) (Balance, error) {
	hiCarry, hiLow := bits.Mul64(b.hi, m)
	if hiCarry != 0 {
		return Balance{}, ErrBalanceOverflow
	}
	loCarry, lo := bits.Mul64(b.lo, m)
	hi, carry := bits.Add64(hiLow, loCarry, 0)
	if carry != 0 {
		return Balance{}, ErrBalanceOverflow
	}
	return Balance{hi: hi, lo: lo}, nil
}

// Comparison methods

// Cmp compares b and other: -1 if b < other, 0 if equal, +1 if b > other.
func (b Balance) Cmp(other Balance) int {
	switch {
	case b.hi < other.hi:
		return -1
	case b.hi > other.hi:
		return 1
	case b.lo < other.lo:
		return -1
	case b.lo > other.lo:
		return 1
	default:
		return 0
	}
}

// IsZero returns true if the balance is zero.
func (b Balance) IsZero() bool { return b.hi == 0 && b.lo == 0 }

// Equal returns true if both balances are equal.
func (b Balance) Equal(other Balance) bool { return b == other }

// Less returns true if b < other.
func (b Balance) Less(other Balance) bool { return b.Cmp(other) < 0 }

// Min returns the smaller of two balances.
func (b Balance) Min(other Balance) Balance {
	if b.Cmp(other) < 0 {
		return b
	}
	return other
}

// Min returns the smaller of a and b.
func Min(a, b Balance) Balance { return a.Min(b) }

// Formatting and codec

// big returns the balance as a big.Int. The receiver is not aliased.
func (b Balance) big() *big.Int {
	n := new(big.Int).SetUint64(b.hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(b.lo))
}

// String returns the base-10 representation.
func (b Balance) String() string { return b.big().String() }

// MarshalJSON implements json.Marshaler. Balances marshal as base-10 strings.
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("types: balance must be a base-10 string: %w", err)
	}
	parsed, err := ParseBalance(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (b Balance) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Balance) UnmarshalText(data []byte) error {
	parsed, err := ParseBalance(string(data))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Value implements driver.Valuer. Balances are stored as base-10 strings so
// they survive backends without native 128-bit integers.
func (b Balance) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan implements sql.Scanner.
func (b *Balance) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return b.UnmarshalText([]byte(v))
	case []byte:
		return b.UnmarshalText(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("types: cannot scan negative %d into Balance", v)
		}
		*b = U64(uint64(v))
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into Balance", src)
	}
}
