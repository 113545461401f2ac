package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

var errStaleFill = errors.New("history changed while loading")

// CachedHistoryRepository puts a read-through Redis cache in front of another
// history repository. Saves bump a per-user version and invalidate the cached
// list; a fill is only written when the version it read is still current.
type CachedHistoryRepository struct {
	next  interfaces.PaymentHistoryRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedHistoryRepository(next interfaces.PaymentHistoryRepository, client *redis.Client, ttl time.Duration) *CachedHistoryRepository {
	return &CachedHistoryRepository{next: next, redis: client, ttl: ttl}
}

func historyKey(userID string) string {
	return fmt.Sprintf("payments:history:%s", userID)
}

func historyVersionKey(userID string) string {
	return fmt.Sprintf("payments:history:%s:version", userID)
}

func (r *CachedHistoryRepository) Save(ctx context.Context, p *models.PersistedPayment) error {
	if err := r.next.Save(ctx, p); err != nil {
		return err
	}
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, historyVersionKey(p.UserID))
		pipe.Del(ctx, historyKey(p.UserID))
		return nil
	})
	if err != nil {
		telemetry.Logger.Warn("Failed to invalidate history cache",
			zap.String("user_id", p.UserID),
			zap.Error(err),
		)
	}
	return nil
}

func (r *CachedHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.PersistedPayment, error) {
	key := historyKey(userID)
	if cached, err := r.redis.Get(ctx, key).Bytes(); err == nil {
		var out []models.PersistedPayment
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	version, verr := historyVersion(ctx, r.redis, userID)

	out, err := r.next.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		telemetry.Logger.Warn("Skipping history cache fill", zap.String("user_id", userID), zap.Error(verr))
		return out, nil
	}
	r.fill(ctx, userID, version, out)
	return out, nil
}

func historyVersion(ctx context.Context, c redis.Cmdable, userID string) (int64, error) {
	v, err := c.Get(ctx, historyVersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (r *CachedHistoryRepository) fill(ctx context.Context, userID string, version int64, out []models.PersistedPayment) {
	payload, err := json.Marshal(out)
	if err != nil {
		return
	}

	err = r.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := historyVersion(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, historyKey(userID), payload, r.ttl)
			return nil
		})
		return err
	}, historyVersionKey(userID))

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		telemetry.Logger.Debug("History changed during cache fill", zap.String("user_id", userID))
	default:
		telemetry.Logger.Warn("Failed to fill history cache",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
