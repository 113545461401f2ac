package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

// Orchestrator owns every status transition of a PaymentRecord.
type Orchestrator struct {
	store     interfaces.PaymentRecordStore
	publisher interfaces.EventPublisher
	now       func() time.Time
}

func NewOrchestrator(store interfaces.PaymentRecordStore, publisher interfaces.EventPublisher) *Orchestrator {
	return &Orchestrator{
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Complete moves a pending payment to completed. Completing an already
// completed payment returns it unchanged; completing a failed one returns
// ErrConflictingTransition.
func (o *Orchestrator) Complete(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	rec, _, err := o.transitionState(ctx, paymentID, models.StatusCompleted, "")
	return rec, err
}

// Fail moves a pending payment to failed with the same idempotence rules as Complete.
func (o *Orchestrator) Fail(ctx context.Context, paymentID, reason string) (*models.PaymentRecord, error) {
	rec, _, err := o.transitionState(ctx, paymentID, models.StatusFailed, reason)
	return rec, err
}

// Transition moves a payment to a terminal status and reports whether this
// call applied the change. A repeat of the current status reports false.
func (o *Orchestrator) Transition(ctx context.Context, paymentID string, to models.PaymentStatus, reason string) (*models.PaymentRecord, bool, error) {
	if !to.IsTerminal() {
		return nil, false, fmt.Errorf("%w: %s is not a terminal status", models.ErrConflictingTransition, to)
	}
	return o.transitionState(ctx, paymentID, to, reason)
}

func (o *Orchestrator) transitionState(ctx context.Context, paymentID string, to models.PaymentStatus, reason string) (*models.PaymentRecord, bool, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "Orchestrator.transitionState")
	defer span.End()
	span.SetAttributes(attribute.String("payment.id", paymentID), attribute.String("payment.to_status", string(to)))

	var from models.PaymentStatus
	rec, err := o.store.Update(ctx, paymentID, func(rec *models.PaymentRecord) (bool, error) {
		from = rec.Status
		if rec.Status == to {
			return false, nil
		}
		if rec.Status.IsTerminal() {
			return false, fmt.Errorf("%w: payment %s is %s, cannot become %s",
				models.ErrConflictingTransition, paymentID, rec.Status, to)
		}
		now := o.now()
		rec.Status = to
		rec.CompletedAt = &now
		if to == models.StatusFailed {
			rec.FailureReason = reason
		}
		return true, nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, models.ErrConflictingTransition) {
			telemetry.Logger.Warn("Rejected payment state transition",
				zap.String("payment_id", paymentID),
				zap.String("from_state", string(from)),
				zap.String("to_state", string(to)),
			)
		}
		return rec, false, err
	}

	if from == to {
		return rec, false, nil
	}

	telemetry.Transitions.WithLabelValues(string(to)).Inc()
	publish(ctx, o.publisher, models.PaymentEvent{
		Type:           models.EventStateChanged,
		PaymentID:      rec.ID,
		Method:         rec.Method,
		Status:         rec.Status,
		PreviousStatus: from,
		Amount:         rec.Amount,
		OccurredAt:     *rec.CompletedAt,
	})

	telemetry.Logger.Info("Payment state transition",
		zap.String("payment_id", paymentID),
		zap.String("from_state", string(from)),
		zap.String("to_state", string(to)),
	)

	return rec, true, nil
}

// publish logs publisher errors and drops them.
func publish(ctx context.Context, p interfaces.EventPublisher, evt models.PaymentEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		telemetry.Logger.Warn("Failed to publish payment event",
			zap.String("payment_id", evt.PaymentID),
			zap.String("event_type", string(evt.Type)),
			zap.Error(err),
		)
	}
}
