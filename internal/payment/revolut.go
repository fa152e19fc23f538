package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// Revolut merchant order endpoints by environment.
const (
	revolutSandboxURL    = "https://sandbox-merchant.revolut.com/api/1.0/orders"
	revolutProductionURL = "https://merchant.revolut.com/api/1.0/orders"

	revolutAPIVersion = "2024-09-01"

	descriptionLimit = 1024
)

// RevolutProvider creates orders against the Revolut Merchant API.
type RevolutProvider struct {
	apiKey   string
	orderURL string
	http     *http.Client
}

// RevolutOption customises the provider.
type RevolutOption func(*RevolutProvider)

// WithOrderURL overrides the merchant endpoint (used by tests).
func WithOrderURL(u string) RevolutOption {
	return func(p *RevolutProvider) { p.orderURL = u }
}

// WithRevolutHTTPClient overrides the HTTP client.
func WithRevolutHTTPClient(hc *http.Client) RevolutOption {
	return func(p *RevolutProvider) { p.http = hc }
}

// NewRevolutProvider builds a provider for the given environment
// ("production" or anything else for sandbox).
func NewRevolutProvider(apiKey, env string, opts ...RevolutOption) *RevolutProvider {
	orderURL := revolutSandboxURL
	if strings.EqualFold(strings.TrimSpace(env), "production") {
		orderURL = revolutProductionURL
	}
	p := &RevolutProvider{
		apiKey:   strings.TrimSpace(apiKey),
		orderURL: orderURL,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type revolutOrderPayload struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type revolutOrderResponse struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
	State       string `json:"state"`
}

// CreateOrder creates a merchant order and returns its checkout URL.
// A single attempt; non-2xx answers surface as *UpstreamError.
func (p *RevolutProvider) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if req.Amount <= 0 {
		return Order{}, ErrInvalidOrder
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	description := req.Description
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit]
	}

	payload, err := json.Marshal(revolutOrderPayload{
		Amount:      req.Amount,
		Currency:    currency,
		Description: description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return Order{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.orderURL, bytes.NewReader(payload))
	if err != nil {
		return Order{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Revolut-Api-Version", revolutAPIVersion)

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return Order{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Order{}, &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var order revolutOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, err
	}
	return Order{ID: order.ID, CheckoutURL: order.CheckoutURL, State: order.State}, nil
}
