package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

// IntentReferencePrefix marks provider order ids issued for card intents.
const IntentReferencePrefix = "INTENT-"

type IntentRequest struct {
	Amount   models.RawAmount
	Currency string
}

// IntentIssuer creates card payment intents at the provider. Nothing is
// stored locally: the confirmed result comes back through CompletionRecorder.
type IntentIssuer struct {
	provider        interfaces.IntentProvider
	defaultCurrency string
}

func NewIntentIssuer(provider interfaces.IntentProvider, defaultCurrency string) *IntentIssuer {
	return &IntentIssuer{provider: provider, defaultCurrency: defaultCurrency}
}

func (s *IntentIssuer) CreateIntent(ctx context.Context, req IntentRequest) (*models.Intent, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "IntentIssuer.CreateIntent")
	defer span.End()

	amount, err := req.Amount.Parse()
	if err != nil {
		telemetry.Intents.WithLabelValues("invalid").Inc()
		return nil, err
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	reference := IntentReferencePrefix + uuid.NewString()
	secret, err := s.provider.CreateIntent(ctx, interfaces.IntentRequest{
		Reference: reference,
		Amount:    amount,
		Currency:  currency,
	})
	if errors.Is(err, models.ErrInvalidAmount) {
		telemetry.Intents.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		telemetry.Intents.WithLabelValues("provider_error").Inc()
		telemetry.Logger.Error("Failed to create payment intent",
			zap.String("reference", reference),
			zap.Error(err),
		)
		var perr *models.ProviderError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &models.ProviderError{Message: err.Error(), Err: err}
	}

	telemetry.Intents.WithLabelValues("created").Inc()
	return &models.Intent{Reference: reference, ClientSecret: secret}, nil
}
