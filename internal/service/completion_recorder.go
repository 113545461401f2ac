package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

type CompletionRequest struct {
	Amount            models.RawAmount
	Method            models.PaymentMethod
	ProviderPaymentID string
	LineItems         []models.LineItem
}

// CompletionRecorder turns a confirmed payment attempt into a user-scoped
// history entry. It is the only writer of payment history.
type CompletionRecorder struct {
	history   interfaces.PaymentHistoryRepository
	records   interfaces.PaymentRecordStore
	publisher interfaces.EventPublisher
	now       func() time.Time
}

func NewCompletionRecorder(
	history interfaces.PaymentHistoryRepository,
	records interfaces.PaymentRecordStore,
	publisher interfaces.EventPublisher,
) *CompletionRecorder {
	return &CompletionRecorder{
		history:   history,
		records:   records,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func validateCompletion(req CompletionRequest) error {
	if _, err := req.Amount.Parse(); err != nil {
		return models.NewValidationError("amount", "must be a positive number with at most two decimal places")
	}
	if req.Method == "" {
		return models.NewValidationError("method", "is required")
	}
	if !req.Method.Valid() {
		return models.NewValidationError("method", "must be one of card, upi, qr, bank")
	}
	if strings.TrimSpace(req.ProviderPaymentID) == "" {
		return models.NewValidationError("providerPaymentId", "is required")
	}
	if len(req.LineItems) == 0 {
		return models.NewValidationError("lineItems", "must not be empty")
	}
	for i, item := range req.LineItems {
		if strings.TrimSpace(item.ProductRef) == "" {
			return models.NewValidationError(fmt.Sprintf("lineItems[%d].productRef", i), "is required")
		}
		if item.Quantity <= 0 {
			return models.NewValidationError(fmt.Sprintf("lineItems[%d].quantity", i), "must be positive")
		}
	}
	return nil
}

func (r *CompletionRecorder) Record(ctx context.Context, userID string, req CompletionRequest) (*models.PersistedPayment, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "CompletionRecorder.Record")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, models.ErrUnauthenticated
	}
	if err := validateCompletion(req); err != nil {
		return nil, err
	}
	if err := r.checkSettlement(ctx, req); err != nil {
		return nil, err
	}

	amount, _ := req.Amount.Parse()
	p := &models.PersistedPayment{
		ID:                uuid.NewString(),
		UserID:            userID,
		Amount:            amount,
		Method:            req.Method,
		ProviderPaymentID: strings.TrimSpace(req.ProviderPaymentID),
		LineItems:         append([]models.LineItem(nil), req.LineItems...),
		Status:            models.StatusCompleted,
		CreatedAt:         r.now(),
	}
	if err := r.history.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save payment: %w", err)
	}

	telemetry.PaymentsRecorded.WithLabelValues(string(p.Method)).Inc()
	publish(ctx, r.publisher, models.PaymentEvent{
		Type:       models.EventRecorded,
		PaymentID:  p.ProviderPaymentID,
		Method:     p.Method,
		Status:     p.Status,
		Amount:     p.Amount,
		OccurredAt: p.CreatedAt,
	})
	telemetry.Logger.Info("Payment recorded",
		zap.String("id", p.ID),
		zap.String("user_id", userID),
		zap.String("provider_payment_id", p.ProviderPaymentID),
		zap.String("method", string(p.Method)),
	)
	return p, nil
}

// checkSettlement refuses to record an out-of-band payment that is known to have failed.
func (r *CompletionRecorder) checkSettlement(ctx context.Context, req CompletionRequest) error {
	if r.records == nil || !req.Method.OutOfBand() {
		return nil
	}
	rec, err := r.records.Get(ctx, strings.TrimSpace(req.ProviderPaymentID))
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Status == models.StatusFailed {
		return models.NewValidationError("providerPaymentId", "refers to a failed payment")
	}
	return nil
}

// History returns the caller's recorded payments, newest first.
func (r *CompletionRecorder) History(ctx context.Context, userID string) ([]models.PersistedPayment, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "CompletionRecorder.History")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, models.ErrUnauthenticated
	}
	return r.history.ListByUser(ctx, userID)
}
