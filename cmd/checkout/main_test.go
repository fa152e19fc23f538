package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zedzima/vividigit-site/internal/config"
	"github.com/zedzima/vividigit-site/internal/payment"
)

type fakeProvider struct {
	lastReq payment.OrderRequest
	order   payment.Order
	err     error
}

func (f *fakeProvider) CreateOrder(ctx context.Context, req payment.OrderRequest) (payment.Order, error) {
	f.lastReq = req
	if f.err != nil {
		return payment.Order{}, f.err
	}
	return f.order, nil
}

func newTestRouter(provider payment.Provider) http.Handler {
	cfg := config.CheckoutConfig{AllowedOrigin: "https://vividigit.com"}
	return newRouter(cfg, zap.NewNop(), provider)
}

func TestCreateOrderSuccess(t *testing.T) {
	fake := &fakeProvider{order: payment.Order{
		ID:          "order-1",
		CheckoutURL: "https://checkout.revolut.com/order-1",
		State:       "PENDING",
	}}
	r := newTestRouter(fake)

	body := `{"items":{"seo-audit":{"title":"SEO Audit","tierName":"M","price":800}},"modifiers":{"languages":2,"countries":0},"total":2480,"currency":"USD","pageUrl":"https://vividigit.com/cart"}`
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["checkout_url"] != "https://checkout.revolut.com/order-1" || resp["order_id"] != "order-1" {
		t.Fatalf("unexpected response %v", resp)
	}

	if fake.lastReq.Amount != 248000 {
		t.Errorf("expected amount in minor units, got %d", fake.lastReq.Amount)
	}
	if !strings.Contains(fake.lastReq.Description, "SEO Audit (M)") {
		t.Errorf("description missing item: %q", fake.lastReq.Description)
	}
	if !strings.Contains(fake.lastReq.Description, "+2 lang") {
		t.Errorf("description missing modifiers: %q", fake.lastReq.Description)
	}
	if strings.Contains(fake.lastReq.Description, "countries") {
		t.Errorf("zero-count modifier should be omitted: %q", fake.lastReq.Description)
	}
	if fake.lastReq.Metadata["source"] != "vividigit-website" {
		t.Errorf("metadata source missing: %v", fake.lastReq.Metadata)
	}
	if fake.lastReq.Metadata["page_url"] != "https://vividigit.com/cart" {
		t.Errorf("metadata page_url missing: %v", fake.lastReq.Metadata)
	}
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	fake := &fakeProvider{}
	r := newTestRouter(fake)

	for _, body := range []string{
		`{"items":{},"total":100}`,
		`{"items":{"a":{"title":"A","tierName":"S","price":1}},"total":0}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCreateOrderUpstreamFailure(t *testing.T) {
	fake := &fakeProvider{err: &payment.UpstreamError{Status: 401, Body: "bad key"}}
	r := newTestRouter(fake)

	body := `{"items":{"a":{"title":"A","tierName":"S","price":100}},"total":100}`
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "Payment service error" {
		t.Errorf("unexpected error code %v", resp["error"])
	}
	if resp["status"] != float64(401) {
		t.Errorf("expected upstream status in body, got %v", resp["status"])
	}
}

func TestCreateOrderMalformedJSON(t *testing.T) {
	r := newTestRouter(&fakeProvider{})
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestPreflightShortCircuits(t *testing.T) {
	r := newTestRouter(&fakeProvider{})
	req := httptest.NewRequest(http.MethodOptions, "/create-order", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://vividigit.com" {
		t.Errorf("unexpected allowed origin %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("unexpected allowed methods %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(&fakeProvider{})
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "Not found" {
		t.Errorf("unexpected body %v", resp)
	}
}
