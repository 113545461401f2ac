package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodUPI  PaymentMethod = "upi"
	MethodQR   PaymentMethod = "qr"
	MethodBank PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodQR, MethodBank:
		return true
	}
	return false
}

// OutOfBand reports whether payments of this method are settled asynchronously.
func (m PaymentMethod) OutOfBand() bool {
	return m == MethodUPI || m == MethodQR || m == MethodBank
}

// PaymentRecord is the transient, mutable state of a single payment attempt.
type PaymentRecord struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	FailureReason string          `json:"failureReason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// Clone returns a deep copy so stores never hand out aliases of their state.
func (r *PaymentRecord) Clone() *PaymentRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	if r.Metadata != nil {
		out.Metadata = append(json.RawMessage(nil), r.Metadata...)
	}
	return &out
}

type LineItem struct {
	ProductRef string `json:"productRef"`
	Quantity   int    `json:"quantity"`
}

type BankDetails struct {
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	AccountName   string `json:"accountName"`
}

// PersistedPayment is the durable, user-scoped record of a finished checkout.
type PersistedPayment struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	Amount            decimal.Decimal `json:"amount"`
	Method            PaymentMethod   `json:"method"`
	ProviderPaymentID string          `json:"providerPaymentId"`
	LineItems         []LineItem      `json:"lineItems"`
	Status            PaymentStatus   `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type Intent struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"clientSecret"`
}
