package provider

import (
	"context"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

type snapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// MidtransProvider issues card intents as Snap transactions. The Snap token is
// handed to the client as its client secret.
type MidtransProvider struct {
	client snapClient
}

func NewMidtransProvider(serverKey string, production bool) *MidtransProvider {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var client snap.Client
	client.New(serverKey, env)
	return &MidtransProvider{client: &client}
}

func (p *MidtransProvider) CreateIntent(ctx context.Context, req interfaces.IntentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	gross, err := MinorUnits(req.Amount)
	if err != nil {
		return "", err
	}

	resp, snapErr := p.client.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Reference,
			GrossAmt: gross,
		},
		CustomField1: req.Currency,
	})
	if snapErr != nil {
		return "", &models.ProviderError{Message: snapErr.Message, Err: snapErr}
	}
	if resp == nil || resp.Token == "" {
		return "", &models.ProviderError{Message: "provider returned no token"}
	}
	return resp.Token, nil
}
