package handlers

import (
	"context"

	"github.com/akylbek/payment-system/checkout-payments/internal/health"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/service"
)

type IntentIssuer interface {
	CreateIntent(ctx context.Context, req service.IntentRequest) (*models.Intent, error)
}

type ReferenceGenerator interface {
	Generate(ctx context.Context, req service.ReferenceRequest) (*service.Reference, error)
}

type CompletionRecorder interface {
	Record(ctx context.Context, userID string, req service.CompletionRequest) (*models.PersistedPayment, error)
	History(ctx context.Context, userID string) ([]models.PersistedPayment, error)
}

type StatusReader interface {
	GetStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error)
}

type SettlementTrigger interface {
	Trigger(ctx context.Context, paymentID string) (*models.PaymentRecord, error)
	HandleNotification(ctx context.Context, n service.Notification) (service.NotificationOutcome, error)
}

type HealthChecker interface {
	Check(ctx context.Context) health.Result
}
