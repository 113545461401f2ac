package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventReferenceIssued EventType = "payment.reference_issued"
	EventStateChanged    EventType = "payment.state_changed"
	EventRecorded        EventType = "payment.recorded"
)

// PaymentEvent is published whenever a payment is issued, transitions or is recorded.
type PaymentEvent struct {
	Type           EventType       `json:"type"`
	PaymentID      string          `json:"paymentId"`
	Method         PaymentMethod   `json:"method"`
	Status         PaymentStatus   `json:"status"`
	PreviousStatus PaymentStatus   `json:"previousStatus,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	OccurredAt     time.Time       `json:"occurredAt"`
}
