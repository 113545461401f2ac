package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

const (
	DefaultInterval  = 5 * time.Second
	DefaultMaxErrors = 3
)

var (
	ErrPaymentFailed = errors.New("payment failed")
	ErrTooManyErrors = errors.New("status query failed repeatedly")
)

type StatusClient interface {
	GetStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error)
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

func DefaultWait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Poller queries a payment's status on a fixed interval until it is terminal.
type Poller struct {
	client    StatusClient
	interval  time.Duration
	maxErrors int
	wait      WaitFunc
	onStatus  func(models.PaymentStatus)
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option { return func(p *Poller) { p.interval = d } }

// WithMaxErrors sets how many consecutive query errors end polling.
func WithMaxErrors(n int) Option { return func(p *Poller) { p.maxErrors = n } }

func WithWait(fn WaitFunc) Option { return func(p *Poller) { p.wait = fn } }

// WithStatusHook observes every status the poller reads.
func WithStatusHook(fn func(models.PaymentStatus)) Option {
	return func(p *Poller) { p.onStatus = fn }
}

func New(client StatusClient, opts ...Option) *Poller {
	p := &Poller{
		client:    client,
		interval:  DefaultInterval,
		maxErrors: DefaultMaxErrors,
		wait:      DefaultWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxErrors < 1 {
		p.maxErrors = 1
	}
	return p
}

// Poll queries immediately and then once per interval. It returns
// StatusCompleted with a nil error on success, ErrPaymentFailed when the
// payment fails, ctx.Err() once ctx is cancelled and ErrTooManyErrors after
// maxErrors consecutive query failures. An unknown payment stops polling at once.
func (p *Poller) Poll(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	consecutive := 0
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		status, err := p.client.GetStatus(ctx, paymentID)
		switch {
		case err == nil:
			consecutive = 0
			if p.onStatus != nil {
				p.onStatus(status)
			}
			switch status {
			case models.StatusCompleted:
				return status, nil
			case models.StatusFailed:
				return status, ErrPaymentFailed
			}
		case errors.Is(err, models.ErrNotFound):
			return "", err
		case ctx.Err() != nil:
			return "", ctx.Err()
		default:
			consecutive++
			telemetry.Logger.Warn("Payment status query failed",
				zap.String("payment_id", paymentID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if consecutive >= p.maxErrors {
				return "", fmt.Errorf("%w: %w", ErrTooManyErrors, err)
			}
		}

		if err := p.wait(ctx, p.interval); err != nil {
			return "", err
		}
	}
}
