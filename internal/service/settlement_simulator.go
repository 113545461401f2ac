package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/scheduler"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

const settleTimeout = 10 * time.Second

// Completer is the transition the simulator applies when a timer fires.
type Completer interface {
	Complete(ctx context.Context, paymentID string) (*models.PaymentRecord, error)
}

// SettlementSimulator completes pending payments a fixed delay after they
// were issued, standing in for the provider's settlement callback.
type SettlementSimulator struct {
	scheduler scheduler.Scheduler
	completer Completer
	delay     time.Duration

	mu      sync.Mutex
	handles map[string]scheduler.Handle
}

func NewSettlementSimulator(s scheduler.Scheduler, completer Completer, delay time.Duration) *SettlementSimulator {
	return &SettlementSimulator{
		scheduler: s,
		completer: completer,
		delay:     delay,
		handles:   make(map[string]scheduler.Handle),
	}
}

// Schedule arms a one-shot completion for paymentID. Scheduling an id that is
// already armed is a no-op.
func (s *SettlementSimulator) Schedule(paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[paymentID]; ok {
		return nil
	}

	h, err := s.scheduler.Schedule(s.delay, func(ctx context.Context) {
		s.settle(ctx, paymentID)
	})
	if err != nil {
		return err
	}
	s.handles[paymentID] = h
	return nil
}

func (s *SettlementSimulator) settle(ctx context.Context, paymentID string) {
	s.mu.Lock()
	delete(s.handles, paymentID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	_, err := s.completer.Complete(ctx, paymentID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrConflictingTransition):
		telemetry.Logger.Debug("Settlement skipped",
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
	default:
		telemetry.Logger.Error("Settlement failed",
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
	}
}

// Cancel disarms a pending settlement. It reports whether one was armed.
func (s *SettlementSimulator) Cancel(paymentID string) bool {
	s.mu.Lock()
	h, ok := s.handles[paymentID]
	delete(s.handles, paymentID)
	s.mu.Unlock()
	return ok && h.Cancel()
}

// Pending returns the number of armed settlements.
func (s *SettlementSimulator) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Stop disarms every pending settlement.
func (s *SettlementSimulator) Stop() {
	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[string]scheduler.Handle)
	s.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}
