package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

const maxWatchRetries = 10

// RedisRecordStore keeps each payment record as a JSON value under payment:{id}.
type RedisRecordStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRecordStore creates the store. A zero ttl keeps records forever.
func NewRedisRecordStore(client *redis.Client, ttl time.Duration) *RedisRecordStore {
	return &RedisRecordStore{client: client, ttl: ttl}
}

func recordKey(paymentID string) string {
	return fmt.Sprintf("payment:%s", paymentID)
}

func (s *RedisRecordStore) Create(ctx context.Context, rec *models.PaymentRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, recordKey(rec.ID), payload, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrAlreadyExists
	}
	return nil
}

func (s *RedisRecordStore) Get(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	return getRecord(ctx, s.client, paymentID)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getRecord(ctx context.Context, c getter, paymentID string) (*models.PaymentRecord, error) {
	payload, err := c.Get(ctx, recordKey(paymentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec models.PaymentRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode payment %s: %w", paymentID, err)
	}
	return &rec, nil
}

// Update applies mutate inside a WATCH transaction and retries when another
// writer touched the key in between.
func (s *RedisRecordStore) Update(ctx context.Context, paymentID string, mutate interfaces.MutateFunc) (*models.PaymentRecord, error) {
	key := recordKey(paymentID)
	var result *models.PaymentRecord

	txf := func(tx *redis.Tx) error {
		rec, err := getRecord(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		result = rec

		next := rec.Clone()
		changed, err := mutate(next)
		if err != nil || !changed {
			return err
		}

		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return result, err
	}
	return nil, fmt.Errorf("update payment %s: too much contention", paymentID)
}

func (s *RedisRecordStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
