package provider

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"math"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Signature computes the callback signature: hex(sha512(orderID + statusCode + grossAmount + key)).
func Signature(orderID, statusCode, grossAmount, key string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + key))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(orderID, statusCode, grossAmount, key, signature string) bool {
	if key == "" || signature == "" {
		return false
	}
	expected := Signature(orderID, statusCode, grossAmount, key)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// MinorUnits converts an amount to the smallest currency unit, rounding half
// away from zero. Amounts that round to nothing or overflow int64 are
// ErrInvalidAmount.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	// 19 integer digits already exceed int64; checking the exponent first keeps huge values cheap.
	if amount.Exponent() > 18 {
		return 0, models.ErrInvalidAmount
	}
	minor := amount.Mul(decimal.NewFromInt(100)).Round(0)
	if !minor.IsPositive() || minor.GreaterThan(maxMinorUnits) {
		return 0, models.ErrInvalidAmount
	}
	return minor.IntPart(), nil
}
