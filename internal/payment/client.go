package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrUnavailable is returned when no checkout service is configured; the
// caller falls back to the contact flow.
var ErrUnavailable = errors.New("payment: checkout service not configured")

// Client calls the checkout service's order creation endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the checkout service. An empty base URL
// yields a client whose calls fail with ErrUnavailable.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithClientHTTP overrides the HTTP client (used by tests).
func (c *Client) WithClientHTTP(hc *http.Client) *Client {
	c.http = hc
	return c
}

// OrderItem is one cart line forwarded to the checkout service.
type OrderItem struct {
	Title    string `json:"title"`
	TierName string `json:"tierName"`
	Price    int    `json:"price"`
}

// Modifiers are the aggregate modifier counts across the order.
type Modifiers struct {
	Languages int `json:"languages"`
	Countries int `json:"countries"`
}

// CreateOrderRequest mirrors the checkout service's wire contract.
type CreateOrderRequest struct {
	Items     map[string]OrderItem `json:"items"`
	Modifiers Modifiers            `json:"modifiers"`
	Total     int                  `json:"total"`
	Currency  string               `json:"currency"`
	PageURL   string               `json:"pageUrl"`
}

type createOrderResponse struct {
	CheckoutURL string `json:"checkout_url"`
	OrderID     string `json:"order_id"`
	State       string `json:"state"`
	Error       string `json:"error"`
}

// CreateOrder posts the cart to the checkout service and returns the hosted
// checkout URL. A single attempt; any failure routes the caller to the
// contact fallback.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	if c == nil || c.baseURL == "" {
		return Order{}, ErrUnavailable
	}

	endpoint, err := url.JoinPath(c.baseURL, "create-order")
	if err != nil {
		return Order{}, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return Order{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Order{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Idempotency-Key", ulid.Make().String())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Order{}, err
	}
	defer resp.Body.Close()

	var body createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Order{}, err
	}
	if body.Error != "" {
		return Order{}, fmt.Errorf("payment: checkout service: %s", body.Error)
	}
	if body.CheckoutURL == "" {
		return Order{}, fmt.Errorf("payment: checkout service returned no checkout URL (status %d)", resp.StatusCode)
	}
	return Order{ID: body.OrderID, CheckoutURL: body.CheckoutURL, State: body.State}, nil
}
