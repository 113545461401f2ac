package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/akylbek/payment-system/checkout-payments/internal/health"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/service"
)

type intentsMock struct{ mock.Mock }

func (m *intentsMock) CreateIntent(ctx context.Context, req service.IntentRequest) (*models.Intent, error) {
	args := m.Called(ctx, req)
	intent, _ := args.Get(0).(*models.Intent)
	return intent, args.Error(1)
}

type referencesMock struct{ mock.Mock }

func (m *referencesMock) Generate(ctx context.Context, req service.ReferenceRequest) (*service.Reference, error) {
	args := m.Called(ctx, req)
	ref, _ := args.Get(0).(*service.Reference)
	return ref, args.Error(1)
}

type recorderMock struct{ mock.Mock }

func (m *recorderMock) Record(ctx context.Context, userID string, req service.CompletionRequest) (*models.PersistedPayment, error) {
	args := m.Called(ctx, userID, req)
	p, _ := args.Get(0).(*models.PersistedPayment)
	return p, args.Error(1)
}

func (m *recorderMock) History(ctx context.Context, userID string) ([]models.PersistedPayment, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]models.PersistedPayment)
	return p, args.Error(1)
}

type statusMock struct{ mock.Mock }

func (m *statusMock) GetStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(models.PaymentStatus), args.Error(1)
}

type settlementsMock struct{ mock.Mock }

func (m *settlementsMock) Trigger(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	args := m.Called(ctx, paymentID)
	rec, _ := args.Get(0).(*models.PaymentRecord)
	return rec, args.Error(1)
}

func (m *settlementsMock) HandleNotification(ctx context.Context, n service.Notification) (service.NotificationOutcome, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(service.NotificationOutcome), args.Error(1)
}

type healthStub struct{ res health.Result }

func (h healthStub) Check(context.Context) health.Result { return h.res }
