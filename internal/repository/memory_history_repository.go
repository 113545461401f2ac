package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

type MemoryHistoryRepository struct {
	mu       sync.RWMutex
	payments []models.PersistedPayment
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

func (r *MemoryHistoryRepository) Save(ctx context.Context, p *models.PersistedPayment) error {
	cp := *p
	cp.LineItems = append([]models.LineItem(nil), p.LineItems...)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payments {
		if existing.ID == p.ID {
			return models.ErrAlreadyExists
		}
	}
	r.payments = append(r.payments, cp)
	return nil
}

// ListByUser returns the caller's payments, newest first.
func (r *MemoryHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.PersistedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PersistedPayment, 0)
	for _, p := range r.payments {
		if p.UserID == userID {
			cp := p
			cp.LineItems = append([]models.LineItem(nil), p.LineItems...)
			out = append(out, cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
