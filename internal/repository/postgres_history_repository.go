package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

const uniqueViolation = "23505"

type PostgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

func (r *PostgresHistoryRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			method VARCHAR(16) NOT NULL,
			provider_payment_id VARCHAR(255) NOT NULL,
			line_items JSONB NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_user_created ON payments(user_id, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresHistoryRepository) Save(ctx context.Context, p *models.PersistedPayment) error {
	items, err := json.Marshal(p.LineItems)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, amount, method, provider_payment_id, line_items, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.UserID, p.Amount, p.Method, p.ProviderPaymentID, items, p.Status, p.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.ErrAlreadyExists
	}
	return err
}

func (r *PostgresHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.PersistedPayment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, method, provider_payment_id, line_items, status, created_at
		FROM payments WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PersistedPayment, 0)
	for rows.Next() {
		var (
			p     models.PersistedPayment
			items []byte
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &p.ProviderPaymentID, &items, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &p.LineItems); err != nil {
			return nil, fmt.Errorf("decode line items for %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresHistoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
