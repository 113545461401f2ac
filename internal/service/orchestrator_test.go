package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/repository"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

func seededStore(t *testing.T, recs ...*models.PaymentRecord) *repository.MemoryRecordStore {
	t.Helper()
	store := repository.NewMemoryRecordStore()
	for _, rec := range recs {
		require.NoError(t, store.Create(context.Background(), rec))
	}
	return store
}

func record(id string, status models.PaymentStatus) *models.PaymentRecord {
	return &models.PaymentRecord{
		ID:        id,
		Amount:    decimal.RequireFromString("199.99"),
		Method:    models.MethodUPI,
		Status:    status,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestOrchestrator_Transitions(t *testing.T) {
	var tests = []struct {
		name           string
		seed           []*models.PaymentRecord
		apply          func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error)
		expectedStatus models.PaymentStatus
		expectedEvents int
		expectedErr    error
	}{
		{
			name: "complete pending",
			seed: []*models.PaymentRecord{record("p1", models.StatusPending)},
			apply: func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error) {
				return o.Complete(ctx, "p1")
			},
			expectedStatus: models.StatusCompleted,
			expectedEvents: 1,
		},
		{
			name: "complete twice is a no-op",
			seed: []*models.PaymentRecord{record("p1", models.StatusPending)},
			apply: func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error) {
				if _, err := o.Complete(ctx, "p1"); err != nil {
					return nil, err
				}
				return o.Complete(ctx, "p1")
			},
			expectedStatus: models.StatusCompleted,
			expectedEvents: 1,
		},
		{
			name: "fail pending",
			seed: []*models.PaymentRecord{record("p1", models.StatusPending)},
			apply: func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error) {
				return o.Fail(ctx, "p1", "expire")
			},
			expectedStatus: models.StatusFailed,
			expectedEvents: 1,
		},
		{
			name: "fail after complete is rejected",
			seed: []*models.PaymentRecord{record("p1", models.StatusCompleted)},
			apply: func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error) {
				return o.Fail(ctx, "p1", "deny")
			},
			expectedErr: models.ErrConflictingTransition,
		},
		{
			name: "complete after fail is rejected",
			seed: []*models.PaymentRecord{record("p1", models.StatusFailed)},
			apply: func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error) {
				return o.Complete(ctx, "p1")
			},
			expectedErr: models.ErrConflictingTransition,
		},
		{
			name: "unknown payment",
			apply: func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error) {
				return o.Complete(ctx, "missing")
			},
			expectedErr: models.ErrNotFound,
		},
		{
			name: "transition back to pending is rejected",
			seed: []*models.PaymentRecord{record("p1", models.StatusPending)},
			apply: func(ctx context.Context, o *Orchestrator) (*models.PaymentRecord, error) {
				rec, _, err := o.Transition(ctx, "p1", models.StatusPending, "")
				return rec, err
			},
			expectedErr: models.ErrConflictingTransition,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pub := &recordingPublisher{}
			o := NewOrchestrator(seededStore(t, tt.seed...), pub)

			rec, err := tt.apply(context.Background(), o)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Empty(t, pub.ofType(models.EventStateChanged))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedStatus, rec.Status)
			require.NotNil(t, rec.CompletedAt)
			require.Len(t, pub.ofType(models.EventStateChanged), tt.expectedEvents)
		})
	}
}

func TestOrchestrator_FailureReasonAndEvent(t *testing.T) {
	pub := &recordingPublisher{}
	store := seededStore(t, record("p1", models.StatusPending))
	o := NewOrchestrator(store, pub)
	before := testutil.ToFloat64(telemetry.Transitions.WithLabelValues("failed"))

	rec, applied, err := o.Transition(context.Background(), "p1", models.StatusFailed, "expire")
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, "expire", rec.FailureReason)

	_, applied, err = o.Transition(context.Background(), "p1", models.StatusFailed, "expire")
	require.NoError(t, err)
	require.False(t, applied)

	events := pub.ofType(models.EventStateChanged)
	require.Len(t, events, 1)
	require.Equal(t, models.StatusPending, events[0].PreviousStatus)
	require.Equal(t, models.StatusFailed, events[0].Status)
	require.Equal(t, before+1, testutil.ToFloat64(telemetry.Transitions.WithLabelValues("failed")))
}
