package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

func newRedisStore(t *testing.T) *RedisRecordStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRecordStore(client, 0)
}

func pendingRecord(id string) *models.PaymentRecord {
	return &models.PaymentRecord{
		ID:        id,
		Amount:    decimal.RequireFromString("199.99"),
		Method:    models.MethodUPI,
		Status:    models.StatusPending,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Metadata:  json.RawMessage(`{"upiId":"user@bank"}`),
	}
}

func complete(rec *models.PaymentRecord) (bool, error) {
	if rec.Status == models.StatusCompleted {
		return false, nil
	}
	rec.Status = models.StatusCompleted
	now := time.Now().UTC()
	rec.CompletedAt = &now
	return true, nil
}

func TestRecordStores(t *testing.T) {
	var stores = []struct {
		name  string
		store func(t *testing.T) interfaces.PaymentRecordStore
	}{
		{name: "memory", store: func(t *testing.T) interfaces.PaymentRecordStore { return NewMemoryRecordStore() }},
		{name: "redis", store: func(t *testing.T) interfaces.PaymentRecordStore { return newRedisStore(t) }},
	}

	for _, st := range stores {
		st := st
		t.Run(st.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			t.Run("get unknown", func(t *testing.T) {
				_, err := st.store(t).Get(ctx, "missing")
				require.ErrorIs(t, err, models.ErrNotFound)
			})

			t.Run("create twice", func(t *testing.T) {
				s := st.store(t)
				require.NoError(t, s.Create(ctx, pendingRecord("p1")))
				require.ErrorIs(t, s.Create(ctx, pendingRecord("p1")), models.ErrAlreadyExists)
			})

			t.Run("round trip keeps metadata", func(t *testing.T) {
				s := st.store(t)
				require.NoError(t, s.Create(ctx, pendingRecord("p1")))

				got, err := s.Get(ctx, "p1")
				require.NoError(t, err)
				require.Equal(t, models.StatusPending, got.Status)
				require.True(t, got.Amount.Equal(decimal.RequireFromString("199.99")))
				require.JSONEq(t, `{"upiId":"user@bank"}`, string(got.Metadata))
				require.Nil(t, got.CompletedAt)
			})

			t.Run("update unknown", func(t *testing.T) {
				_, err := st.store(t).Update(ctx, "missing", complete)
				require.ErrorIs(t, err, models.ErrNotFound)
			})

			t.Run("update applies mutation", func(t *testing.T) {
				s := st.store(t)
				require.NoError(t, s.Create(ctx, pendingRecord("p1")))

				updated, err := s.Update(ctx, "p1", complete)
				require.NoError(t, err)
				require.Equal(t, models.StatusCompleted, updated.Status)
				require.NotNil(t, updated.CompletedAt)

				got, err := s.Get(ctx, "p1")
				require.NoError(t, err)
				require.Equal(t, models.StatusCompleted, got.Status)
			})

			t.Run("mutation error leaves record untouched", func(t *testing.T) {
				s := st.store(t)
				require.NoError(t, s.Create(ctx, pendingRecord("p1")))

				_, err := s.Update(ctx, "p1", func(rec *models.PaymentRecord) (bool, error) {
					rec.Status = models.StatusFailed
					return true, models.ErrConflictingTransition
				})
				require.ErrorIs(t, err, models.ErrConflictingTransition)

				got, err := s.Get(ctx, "p1")
				require.NoError(t, err)
				require.Equal(t, models.StatusPending, got.Status)
			})

			t.Run("concurrent updates apply once", func(t *testing.T) {
				s := st.store(t)
				require.NoError(t, s.Create(ctx, pendingRecord("p1")))

				var (
					wg      sync.WaitGroup
					mu      sync.Mutex
					applied int
				)
				for i := 0; i < 8; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := s.Update(ctx, "p1", func(rec *models.PaymentRecord) (bool, error) {
							changed, err := complete(rec)
							if changed {
								mu.Lock()
								applied++
								mu.Unlock()
							}
							return changed, err
						})
						require.NoError(t, err)
					}()
				}
				wg.Wait()

				got, err := s.Get(ctx, "p1")
				require.NoError(t, err)
				require.Equal(t, models.StatusCompleted, got.Status)
				if st.name == "memory" {
					require.Equal(t, 1, applied)
				}
			})
		})
	}
}
