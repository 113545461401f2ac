package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/provider"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

// Notification is a provider settlement callback.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
}

type NotificationOutcome string

const (
	OutcomeApplied   NotificationOutcome = "applied"
	OutcomeDuplicate NotificationOutcome = "duplicate"
	OutcomeIgnored   NotificationOutcome = "ignored"
)

type pendingCanceller interface {
	Cancel(paymentID string) bool
}

// Settlements applies settlement outcomes that arrive from outside the
// simulator: an explicit completion trigger or a signed provider callback.
type Settlements struct {
	orchestrator *Orchestrator
	pending      pendingCanceller
	secret       string
}

func NewSettlements(orchestrator *Orchestrator, pending pendingCanceller, secret string) *Settlements {
	return &Settlements{orchestrator: orchestrator, pending: pending, secret: secret}
}

// Trigger completes a pending payment immediately.
func (s *Settlements) Trigger(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	rec, err := s.orchestrator.Complete(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	s.disarm(paymentID)
	return rec, nil
}

func (s *Settlements) HandleNotification(ctx context.Context, n Notification) (NotificationOutcome, error) {
	if !provider.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, s.secret, n.SignatureKey) {
		telemetry.Logger.Warn("Rejected settlement callback with bad signature", zap.String("payment_id", n.OrderID))
		return "", models.ErrUnauthenticated
	}

	// Card intents have no local record; their outcome arrives through CompletionRecorder.
	if strings.HasPrefix(n.OrderID, IntentReferencePrefix) {
		telemetry.Logger.Info("Acknowledging card intent callback",
			zap.String("payment_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
		)
		return OutcomeIgnored, nil
	}

	var (
		to     models.PaymentStatus
		reason string
	)
	status := strings.ToLower(n.TransactionStatus)
	switch status {
	case "settlement", "capture":
		to = models.StatusCompleted
	case "deny", "cancel", "expire", "failure":
		to, reason = models.StatusFailed, status
	default:
		telemetry.Logger.Info("Ignoring settlement callback",
			zap.String("payment_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
		)
		return OutcomeIgnored, nil
	}

	_, applied, err := s.orchestrator.Transition(ctx, n.OrderID, to, reason)
	if err != nil {
		return "", err
	}
	s.disarm(n.OrderID)
	if !applied {
		return OutcomeDuplicate, nil
	}
	return OutcomeApplied, nil
}

func (s *Settlements) disarm(paymentID string) {
	if s.pending != nil {
		s.pending.Cancel(paymentID)
	}
}
