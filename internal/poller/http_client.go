package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

// HTTPStatusClient reads payment status from GET {baseURL}/payments/status/{id}.
type HTTPStatusClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPStatusClient(baseURL string, client *http.Client) *HTTPStatusClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPStatusClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

type statusResponse struct {
	Success bool                 `json:"success"`
	Status  models.PaymentStatus `json:"status"`
	Message string               `json:"message"`
}

func (c *HTTPStatusClient) GetStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/payments/status/%s", c.baseURL, url.PathEscape(paymentID)), nil)
	if err != nil {
		return "", err
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode status response (HTTP %d): %w", resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", models.ErrNotFound
	case resp.StatusCode != http.StatusOK || !body.Success:
		return "", fmt.Errorf("status query failed (HTTP %d): %s", resp.StatusCode, body.Message)
	}
	return body.Status, nil
}
