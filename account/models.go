// Package account defines validated account identifiers and ledger entries.
//
// An account identifier is an opaque string of 1 to 64 bytes: lowercase
// alphanumeric segments joined by single '.', '-' or '_' separators, with no
// leading, trailing or consecutive separators. An entry exists in the ledger
// if and only if the account is registered; a registered account may hold a
// zero balance.
package account

import (
	"fmt"

	"github.com/xraph/tokenledger/types"
)

// MinIDLength and MaxIDLength bound the byte length of an account identifier.
const (
	MinIDLength = 1
	MaxIDLength = 64
)

// ID is a validated account identifier.
type ID string

// Parse validates s and returns it as an ID.
func Parse(s string) (ID, error) {
	if err := Validate(s); err != nil {
		return "", err
	}
	return ID(s), nil
}

// MustParse is like Parse but panics on error. Use for hardcoded accounts.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Validate reports whether s is a well-formed account identifier.
func Validate(s string) error {
	if len(s) < MinIDLength || len(s) > MaxIDLength {
		return fmt.Errorf("account: id %q: length must be %d..%d bytes, got %d",
			s, MinIDLength, MaxIDLength, len(s))
	}
	// Segments of [a-z0-9] joined by single '.', '-' or '_'.
	prevSeparator := true // a separator at position 0 is invalid
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			prevSeparator = false
		case c == '.' || c == '-' || c == '_':
			if prevSeparator {
				return fmt.Errorf("account: id %q: separator at %d must follow an alphanumeric", s, i)
			}
			prevSeparator = true
		default:
			return fmt.Errorf("account: id %q: invalid character %q at %d", s, c, i)
		}
	}
	if prevSeparator {
		return fmt.Errorf("account: id %q: must not end with a separator", s)
	}
	return nil
}

// String returns the identifier as a plain string.
func (id ID) String() string { return string(id) }

// IsValid reports whether the identifier is well-formed.
func (id ID) IsValid() bool { return Validate(string(id)) == nil }

// Entry is a single ledger row: a registered account and its balance.
type Entry struct {
	types.Entity

	ID      ID            `json:"id"`
	Balance types.Balance `json:"balance"`
}
