package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

type PostgresRecordStore struct {
	db *sql.DB
}

func NewPostgresRecordStore(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

func (r *PostgresRecordStore) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payment_records (
			id VARCHAR(64) PRIMARY KEY,
			amount NUMERIC(18,2) NOT NULL,
			method VARCHAR(16) NOT NULL,
			status VARCHAR(16) NOT NULL,
			failure_reason TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_records_status ON payment_records(status)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresRecordStore) Create(ctx context.Context, rec *models.PaymentRecord) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_records (id, amount, method, status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.Amount, rec.Method, rec.Status, nullableJSON(rec.Metadata), rec.CreatedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrAlreadyExists
	}
	return nil
}

const selectRecord = `
		SELECT id, amount, method, status, failure_reason, metadata, created_at, completed_at
		FROM payment_records WHERE id = $1`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.PaymentRecord, error) {
	var (
		rec         models.PaymentRecord
		metadata    []byte
		completedAt sql.NullTime
	)
	err := row.Scan(&rec.ID, &rec.Amount, &rec.Method, &rec.Status, &rec.FailureReason, &metadata, &rec.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		rec.Metadata = metadata
	}
	if completedAt.Valid {
		t := completedAt.Time
		rec.CompletedAt = &t
	}
	return &rec, nil
}

func (r *PostgresRecordStore) Get(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	return scanRecord(r.db.QueryRowContext(ctx, selectRecord, paymentID))
}

// Update locks the row for the duration of mutate.
func (r *PostgresRecordStore) Update(ctx context.Context, paymentID string, mutate interfaces.MutateFunc) (*models.PaymentRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rec, err := scanRecord(tx.QueryRowContext(ctx, selectRecord+" FOR UPDATE", paymentID))
	if err != nil {
		return nil, err
	}

	next := rec.Clone()
	changed, err := mutate(next)
	if err != nil {
		return rec, err
	}
	if !changed {
		return rec, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE payment_records
		SET status = $1, failure_reason = $2, completed_at = $3
		WHERE id = $4
	`, next.Status, next.FailureReason, next.CompletedAt, paymentID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *PostgresRecordStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
