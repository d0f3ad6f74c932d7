// Package core holds the domain model of the tracker: entities, the
// day-granularity Date, and Money stored as integer cents.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents. Amounts are always positive; direction is
// carried by the entry or loan type, never by the sign.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(x Money) Money {
	return Money{Cents: m.Cents + x.Cents}
}

// Sub returns m minus x. The result may be negative; balances can be.
func (m Money) Sub(x Money) Money {
	return Money{Cents: m.Cents - x.Cents}
}

// String renders the amount with two decimals, e.g. "12.34".
func (m Money) String() string {
	return decimal.NewFromInt(m.Cents).Shift(-2).StringFixed(2)
}

// ParseMoney converts a user-typed decimal string to cents. Both dot and
// comma decimal separators are accepted; the third decimal digit rounds
// half-up. Zero, negative and malformed inputs are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || !cents.BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	v := cents.IntPart()
	if v <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: v}, nil
}
