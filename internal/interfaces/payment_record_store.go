package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

// MutateFunc changes a record in place. It returns false when nothing changed,
// in which case the store skips the write.
type MutateFunc func(rec *models.PaymentRecord) (bool, error)

// PaymentRecordStore defines the contract for transient payment state.
// Update runs mutate atomically with respect to other writers of the same id.
type PaymentRecordStore interface {
	Create(ctx context.Context, rec *models.PaymentRecord) error
	Get(ctx context.Context, paymentID string) (*models.PaymentRecord, error)
	Update(ctx context.Context, paymentID string, mutate MutateFunc) (*models.PaymentRecord, error)
}

// PaymentHistoryRepository defines the contract for user-scoped persisted payments.
type PaymentHistoryRepository interface {
	Save(ctx context.Context, p *models.PersistedPayment) error
	ListByUser(ctx context.Context, userID string) ([]models.PersistedPayment, error)
}
