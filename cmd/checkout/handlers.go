package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/zedzima/vividigit-site/internal/httpx"
	"github.com/zedzima/vividigit-site/internal/payment"
)

// metadataItemsLimit caps the serialized cart stored in order metadata.
const metadataItemsLimit = 500

type handler struct {
	provider payment.Provider
	origin   string
	logger   *zap.Logger
}

// cors applies the allowed-origin headers to every response and short-circuits
// preflight requests.
func (h *handler) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := h.origin
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(r.Context(), w, httpx.NewError("Not found", "", http.StatusNotFound))
}

type createOrderRequest struct {
	Items     map[string]payment.OrderItem `json:"items"`
	Modifiers payment.Modifiers            `json:"modifiers"`
	Total     int                          `json:"total"`
	Currency  string                       `json:"currency"`
	PageURL   string                       `json:"pageUrl"`
}

type createOrderResponse struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
	State       string `json:"state"`
}

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("decode order request", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("Internal server error", "", http.StatusInternalServerError))
		return
	}

	if len(req.Items) == 0 || req.Total <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("Invalid order: no items or zero total", "", http.StatusBadRequest))
		return
	}

	order, err := h.provider.CreateOrder(ctx, payment.OrderRequest{
		Amount:      int64(req.Total) * 100,
		Currency:    req.Currency,
		Description: orderDescription(req),
		Metadata:    orderMetadata(req),
	})
	if err != nil {
		var upstream *payment.UpstreamError
		if errors.As(err, &upstream) {
			h.logger.Error("payment provider error",
				zap.Int("upstream_status", upstream.Status),
				zap.String("body", upstream.Body),
			)
			httpx.WriteError(ctx, w, httpx.
				NewError("Payment service error", "", http.StatusBadGateway).
				WithDetails(map[string]any{"status": upstream.Status}))
			return
		}
		h.logger.Error("create order", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("Internal server error", "", http.StatusInternalServerError))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, createOrderResponse{
		OrderID:     order.ID,
		CheckoutURL: order.CheckoutURL,
		State:       order.State,
	})
}

// orderDescription summarises the cart for the payment provider statement.
func orderDescription(req createOrderRequest) string {
	slugs := make([]string, 0, len(req.Items))
	for slug := range req.Items {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	var b strings.Builder
	for i, slug := range slugs {
		if i > 0 {
			b.WriteString(", ")
		}
		item := req.Items[slug]
		b.WriteString(item.Title)
		b.WriteString(" (")
		b.WriteString(item.TierName)
		b.WriteString(")")
	}
	if req.Modifiers.Languages > 0 {
		b.WriteString(" +" + strconv.Itoa(req.Modifiers.Languages) + " lang")
	}
	if req.Modifiers.Countries > 0 {
		b.WriteString(" +" + strconv.Itoa(req.Modifiers.Countries) + " countries")
	}
	return b.String()
}

func orderMetadata(req createOrderRequest) map[string]string {
	items, _ := json.Marshal(req.Items)
	serialized := string(items)
	if len(serialized) > metadataItemsLimit {
		serialized = serialized[:metadataItemsLimit]
	}
	return map[string]string{
		"source":   "vividigit-website",
		"page_url": req.PageURL,
		"items":    serialized,
	}
}
