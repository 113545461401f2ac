package service

import (
	"crypto/rand"
	"encoding/hex"
)

// IDGenerator mints payment identifiers.
type IDGenerator func() (string, error)

// NewPaymentID returns 128 random bits as lowercase hex.
func NewPaymentID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
