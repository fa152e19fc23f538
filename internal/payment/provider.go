// Package payment covers both sides of the checkout handoff: the merchant
// provider adapter used by the checkout service and the thin client the web
// server uses to reach that service.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// OrderRequest is a normalized merchant order creation request.
type OrderRequest struct {
	// Amount is in minor units (cents).
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Order is the created merchant order.
type Order struct {
	ID          string
	CheckoutURL string
	State       string
}

// Provider is the contract merchant adapters implement.
type Provider interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}

// ErrInvalidOrder rejects requests with no amount to charge.
var ErrInvalidOrder = errors.New("payment: invalid order")

// UpstreamError reports a non-2xx answer from the merchant API. The checkout
// service maps it to a 502 carrying the upstream status.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("payment: upstream status %d: %s", e.Status, e.Body)
}
