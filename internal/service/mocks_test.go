package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.PaymentEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, evt models.PaymentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) ofType(t models.EventType) []models.PaymentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.PaymentEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type storeMock struct {
	mock.Mock
	interfaces.PaymentRecordStore
}

func (m *storeMock) Create(ctx context.Context, rec *models.PaymentRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *storeMock) Get(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	args := m.Called(ctx, paymentID)
	rec, _ := args.Get(0).(*models.PaymentRecord)
	return rec, args.Error(1)
}

type historyMock struct {
	mock.Mock
	interfaces.PaymentHistoryRepository
}

func (m *historyMock) Save(ctx context.Context, p *models.PersistedPayment) error {
	return m.Called(ctx, p).Error(0)
}

type providerMock struct{ mock.Mock }

func (m *providerMock) CreateIntent(ctx context.Context, req interfaces.IntentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type encoderMock struct{ mock.Mock }

func (m *encoderMock) Encode(payload []byte) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

type settlementMock struct{ mock.Mock }

func (m *settlementMock) Schedule(paymentID string) error {
	return m.Called(paymentID).Error(0)
}

type completerMock struct{ mock.Mock }

func (m *completerMock) Complete(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	args := m.Called(ctx, paymentID)
	rec, _ := args.Get(0).(*models.PaymentRecord)
	return rec, args.Error(1)
}
