package repository

import (
	"context"
	"sync"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

// MemoryRecordStore keeps payment records in process memory under a single lock.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]*models.PaymentRecord
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]*models.PaymentRecord)}
}

func (s *MemoryRecordStore) Create(ctx context.Context, rec *models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return models.ErrAlreadyExists
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryRecordStore) Get(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[paymentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryRecordStore) Update(ctx context.Context, paymentID string, mutate interfaces.MutateFunc) (*models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[paymentID]
	if !ok {
		return nil, models.ErrNotFound
	}

	next := rec.Clone()
	changed, err := mutate(next)
	if err != nil {
		return rec.Clone(), err
	}
	if changed {
		s.records[paymentID] = next
	}
	return s.records[paymentID].Clone(), nil
}

func (s *MemoryRecordStore) Ping(ctx context.Context) error { return nil }
