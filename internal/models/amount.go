package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest amount accepted from a client. Amounts carry at
// most MaxScale decimal places.
var MaxAmount = decimal.New(1, 12)

const (
	MaxScale = 2

	// maxFractionDigits admits trailing zeros such as "10.500" without
	// expanding absurd negative exponents.
	maxFractionDigits = 18
)

// RawAmount holds an amount exactly as it arrived on the wire: a JSON number,
// a numeric string, null, or nothing at all.
type RawAmount []byte

func (a *RawAmount) UnmarshalJSON(b []byte) error {
	*a = append((*a)[:0], b...)
	return nil
}

func (a RawAmount) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return a, nil
}

// AmountOf wraps a decimal for callers that already hold a parsed value.
func AmountOf(d decimal.Decimal) RawAmount {
	return RawAmount(d.String())
}

// Parse returns the amount as a positive decimal of at most MaxScale places
// and no greater than MaxAmount, or ErrInvalidAmount.
func (a RawAmount) Parse() (decimal.Decimal, error) {
	raw := bytes.TrimSpace(a)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, ErrInvalidAmount
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, ErrInvalidAmount
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	// Exponent bounds come first: comparing or printing 1e20000000 expands every digit.
	if d.Exponent() > MaxAmount.Exponent() || d.Exponent() < -maxFractionDigits {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.GreaterThan(MaxAmount) || !d.Equal(d.Truncate(MaxScale)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
