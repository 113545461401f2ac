package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

type IntentRequest struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
}

// IntentProvider creates a provider-side payment intent for card checkouts.
type IntentProvider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (clientSecret string, err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt models.PaymentEvent) error
}

// QREncoder renders a payload as an image data URL.
type QREncoder interface {
	Encode(payload []byte) (string, error)
}
