package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mento-services/marketplace-api/internal/config"
)

// Order is the gateway-side order a client completes payment against.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to a Razorpay-compatible orders API over HTTPS with basic
// auth and a bounded request timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	currency   string
}

// NewClient builds a gateway client from payment configuration.
func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    cfg.BaseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		currency:   cfg.Currency,
	}
}

// CreateOrder registers an order for the given amount in minor units.
func (c *Client) CreateOrder(ctx context.Context, amountMinorUnits int64, receipt string) (*Order, error) {
	payload := map[string]any{
		"amount":   amountMinorUnits,
		"currency": c.currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// KeySecret exposes the signing secret for local signature verification.
func (c *Client) KeySecret() string {
	return c.keySecret
}
