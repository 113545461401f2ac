package messaging

import (
	"context"
	"errors"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

// MultiPublisher publishes to every publisher and joins their errors.
type MultiPublisher []interfaces.EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, evt models.PaymentEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.PaymentEvent) error { return nil }
