package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

const maxIDAttempts = 3

// SettlementScheduler arranges for a pending payment to be settled later.
type SettlementScheduler interface {
	Schedule(paymentID string) error
}

type ReferenceRequest struct {
	Amount      models.RawAmount
	Method      models.PaymentMethod
	UpiID       string
	BankDetails *models.BankDetails
	LineItems   []models.LineItem
}

type Reference struct {
	PaymentID string
	// QRImage is a PNG data URL, set for QR references only.
	QRImage string
	Record  *models.PaymentRecord
}

type qrPayload struct {
	PaymentID string      `json:"paymentId"`
	Amount    json.Number `json:"amount"`
	Timestamp int64       `json:"timestamp"`
}

type referenceMetadata struct {
	UpiID       string              `json:"upiId,omitempty"`
	BankDetails *models.BankDetails `json:"bankDetails,omitempty"`
	LineItems   []models.LineItem   `json:"lineItems,omitempty"`
}

// ReferenceGenerator issues identifiers for payments settled outside the
// request: UPI collect requests, QR codes and bank transfers.
type ReferenceGenerator struct {
	store      interfaces.PaymentRecordStore
	encoder    interfaces.QREncoder
	settlement SettlementScheduler
	publisher  interfaces.EventPublisher
	newID      IDGenerator
	now        func() time.Time
}

func NewReferenceGenerator(
	store interfaces.PaymentRecordStore,
	encoder interfaces.QREncoder,
	settlement SettlementScheduler,
	publisher interfaces.EventPublisher,
) *ReferenceGenerator {
	return &ReferenceGenerator{
		store:      store,
		encoder:    encoder,
		settlement: settlement,
		publisher:  publisher,
		newID:      NewPaymentID,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithIDGenerator replaces the identifier source.
func (g *ReferenceGenerator) WithIDGenerator(fn IDGenerator) *ReferenceGenerator {
	g.newID = fn
	return g
}

// ValidateUpiID accepts identifiers of the form handle@provider.
func ValidateUpiID(id string) error {
	id = strings.TrimSpace(id)
	if strings.Count(id, "@") != 1 {
		return models.ErrInvalidUpiID
	}
	handle, psp, _ := strings.Cut(id, "@")
	if handle == "" || psp == "" || strings.ContainsAny(id, " \t") {
		return models.ErrInvalidUpiID
	}
	return nil
}

func validateBankDetails(d *models.BankDetails) error {
	if d == nil {
		return models.NewValidationError("bankDetails", "is required")
	}
	switch {
	case strings.TrimSpace(d.AccountNumber) == "":
		return models.NewValidationError("bankDetails.accountNumber", "is required")
	case strings.TrimSpace(d.IFSCCode) == "":
		return models.NewValidationError("bankDetails.ifscCode", "is required")
	case strings.TrimSpace(d.AccountName) == "":
		return models.NewValidationError("bankDetails.accountName", "is required")
	}
	return nil
}

func (g *ReferenceGenerator) Generate(ctx context.Context, req ReferenceRequest) (*Reference, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "ReferenceGenerator.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("payment.method", string(req.Method)))

	amount, err := req.Amount.Parse()
	if err != nil {
		return nil, err
	}

	meta := referenceMetadata{LineItems: req.LineItems}
	switch req.Method {
	case models.MethodUPI:
		if err := ValidateUpiID(req.UpiID); err != nil {
			return nil, err
		}
		meta.UpiID = strings.TrimSpace(req.UpiID)
	case models.MethodBank:
		if err := validateBankDetails(req.BankDetails); err != nil {
			return nil, err
		}
		meta.BankDetails = req.BankDetails
	case models.MethodQR:
	default:
		return nil, models.NewValidationError("method", "must be one of upi, qr, bank")
	}

	metadata, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	now := g.now()
	ref := &Reference{}
	for attempt := 1; ; attempt++ {
		id, err := g.newID()
		if err != nil {
			return nil, fmt.Errorf("generate payment id: %w", err)
		}

		// Render before storing so an encoding failure leaves nothing behind.
		if req.Method == models.MethodQR {
			payload, err := json.Marshal(qrPayload{
				PaymentID: id,
				Amount:    json.Number(amount.String()),
				Timestamp: now.UnixMilli(),
			})
			if err != nil {
				return nil, err
			}
			if ref.QRImage, err = g.encoder.Encode(payload); err != nil {
				return nil, err
			}
		}

		rec := &models.PaymentRecord{
			ID:        id,
			Amount:    amount,
			Method:    req.Method,
			Status:    models.StatusPending,
			CreatedAt: now,
			Metadata:  metadata,
		}
		err = g.store.Create(ctx, rec)
		if errors.Is(err, models.ErrAlreadyExists) && attempt < maxIDAttempts {
			telemetry.Logger.Warn("Payment id collision, retrying", zap.String("payment_id", id))
			continue
		}
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("store payment %s: %w", id, err)
		}
		ref.PaymentID = id
		ref.Record = rec
		break
	}

	telemetry.ReferencesIssued.WithLabelValues(string(req.Method)).Inc()
	publish(ctx, g.publisher, models.PaymentEvent{
		Type:       models.EventReferenceIssued,
		PaymentID:  ref.PaymentID,
		Method:     req.Method,
		Status:     models.StatusPending,
		Amount:     amount,
		OccurredAt: now,
	})

	if g.settlement != nil {
		if err := g.settlement.Schedule(ref.PaymentID); err != nil {
			telemetry.Logger.Warn("Settlement not scheduled, payment stays pending",
				zap.String("payment_id", ref.PaymentID),
				zap.Error(err),
			)
		}
	}

	telemetry.Logger.Info("Payment reference issued",
		zap.String("payment_id", ref.PaymentID),
		zap.String("method", string(req.Method)),
		zap.String("amount", amount.String()),
	)
	return ref, nil
}
