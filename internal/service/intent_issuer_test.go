package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

func TestIntentIssuer_CreateIntent(t *testing.T) {
	var tests = []struct {
		name        string
		req         IntentRequest
		service     func() *IntentIssuer
		expected    string
		expectedErr error
	}{
		{
			name: "defaults currency",
			req:  IntentRequest{Amount: models.RawAmount("19.99")},
			service: func() *IntentIssuer {
				p := new(providerMock)
				p.On("CreateIntent", mock.Anything, mock.MatchedBy(func(r interfaces.IntentRequest) bool {
					return r.Currency == "usd" && r.Amount.String() == "19.99" && strings.HasPrefix(r.Reference, "INTENT-")
				})).Return("secret_1", nil)
				return NewIntentIssuer(p, "usd")
			},
			expected: "secret_1",
		},
		{
			name: "normalises currency",
			req:  IntentRequest{Amount: models.RawAmount("5"), Currency: " INR "},
			service: func() *IntentIssuer {
				p := new(providerMock)
				p.On("CreateIntent", mock.Anything, mock.MatchedBy(func(r interfaces.IntentRequest) bool {
					return r.Currency == "inr"
				})).Return("secret_2", nil)
				return NewIntentIssuer(p, "usd")
			},
			expected: "secret_2",
		},
		{
			name: "invalid amount never reaches provider",
			req:  IntentRequest{Amount: models.RawAmount("0")},
			service: func() *IntentIssuer {
				return NewIntentIssuer(new(providerMock), "usd")
			},
			expectedErr: models.ErrInvalidAmount,
		},
		{
			name: "unbounded amount never reaches provider",
			req:  IntentRequest{Amount: models.RawAmount(`"1e20000000"`)},
			service: func() *IntentIssuer {
				return NewIntentIssuer(new(providerMock), "usd")
			},
			expectedErr: models.ErrInvalidAmount,
		},
		{
			name: "amount the provider cannot represent stays a client error",
			req:  IntentRequest{Amount: models.RawAmount("5")},
			service: func() *IntentIssuer {
				p := new(providerMock)
				p.On("CreateIntent", mock.Anything, mock.Anything).Return("", models.ErrInvalidAmount)
				return NewIntentIssuer(p, "usd")
			},
			expectedErr: models.ErrInvalidAmount,
		},
		{
			name: "provider error passes through",
			req:  IntentRequest{Amount: models.RawAmount("5")},
			service: func() *IntentIssuer {
				p := new(providerMock)
				p.On("CreateIntent", mock.Anything, mock.Anything).Return("", &models.ProviderError{Message: "card declined"})
				return NewIntentIssuer(p, "usd")
			},
			expectedErr: models.ErrProvider,
		},
		{
			name: "plain provider failure is wrapped",
			req:  IntentRequest{Amount: models.RawAmount("5")},
			service: func() *IntentIssuer {
				p := new(providerMock)
				p.On("CreateIntent", mock.Anything, mock.Anything).Return("", errors.New("connection reset"))
				return NewIntentIssuer(p, "usd")
			},
			expectedErr: models.ErrProvider,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			intent, err := tt.service().CreateIntent(context.Background(), tt.req)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, intent.ClientSecret)
		})
	}
}
