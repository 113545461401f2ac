package service

import (
	"context"
	"strings"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

type StatusService struct {
	store interfaces.PaymentRecordStore
}

func NewStatusService(store interfaces.PaymentRecordStore) *StatusService {
	return &StatusService{store: store}
}

func (s *StatusService) GetStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "StatusService.GetStatus")
	defer span.End()

	if strings.TrimSpace(paymentID) == "" {
		return "", models.ErrNotFound
	}
	rec, err := s.store.Get(ctx, paymentID)
	if err != nil {
		return "", err
	}
	return rec.Status, nil
}
