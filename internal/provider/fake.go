package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

// FakeProvider issues local client secrets for development and tests.
type FakeProvider struct {
	mu      sync.Mutex
	failMsg string
	issued  map[string]interfaces.IntentRequest
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{issued: make(map[string]interfaces.IntentRequest)}
}

// FailWith makes every following call fail with msg. An empty msg restores success.
func (p *FakeProvider) FailWith(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failMsg = msg
}

func (p *FakeProvider) CreateIntent(ctx context.Context, req interfaces.IntentRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failMsg != "" {
		return "", &models.ProviderError{Message: p.failMsg}
	}
	secret := fmt.Sprintf("%s_secret_%s", req.Reference, uuid.NewString())
	p.issued[secret] = req
	return secret, nil
}

// Issued returns the request behind a client secret.
func (p *FakeProvider) Issued(secret string) (interfaces.IntentRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	req, ok := p.issued[secret]
	return req, ok
}
