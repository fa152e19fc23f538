package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/zedzima/vividigit-site/internal/relay"
)

// relayCapture stands in for the form relay and records envelopes.
func relayCapture(t *testing.T, succeed bool) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode relay payload: %v", err)
		}
		got = append(got, body)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": succeed})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestContactSubmitSuccess(t *testing.T) {
	router := newTestRouter(t)
	srv, got := relayCapture(t, true)
	relayClient = relay.NewClient("test-key", relay.WithEndpoint(srv.URL))

	b := newBrowser(t, router)
	rec := b.post("/contact", url.Values{
		"name":       {"Ada"},
		"email":      {"ada@example.com"},
		"message":    {"Need a landing page"},
		"page_title": {"Contact"},
		"page_url":   {"https://vividigit.com/contact?utm_source=google&utm_medium=cpc"},
		"redirect":   {"/contact"},
	}.Encode())

	if loc := rec.Header().Get("Location"); loc != "/contact?sent=1" {
		t.Fatalf("expected success redirect, got %q", loc)
	}
	if len(*got) != 1 {
		t.Fatalf("expected one relay call, got %d", len(*got))
	}
	env := (*got)[0]
	if env["subject"] != "Contact Form from Contact" {
		t.Errorf("unexpected subject %v", env["subject"])
	}
	if env["replyto"] != "ada@example.com" || env["from_name"] != "Ada" {
		t.Errorf("unexpected envelope %v", env)
	}
	if ts, _ := env["traffic_source"].(string); !strings.Contains(ts, "google") || !strings.Contains(ts, "cpc") {
		t.Errorf("expected UTM traffic source, got %v", env["traffic_source"])
	}
}

func TestContactSubmitInvalidEmailSkipsRelay(t *testing.T) {
	router := newTestRouter(t)
	srv, got := relayCapture(t, true)
	relayClient = relay.NewClient("test-key", relay.WithEndpoint(srv.URL))

	b := newBrowser(t, router)
	rec := b.post("/contact", "name=Ada&email=not-an-email&redirect=/contact")

	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "email=invalid") {
		t.Fatalf("expected invalid email redirect, got %q", loc)
	}
	if !strings.Contains(loc, "name=Ada") {
		t.Fatalf("expected name carried back for the re-rendered form, got %q", loc)
	}
	if len(*got) != 0 {
		t.Fatalf("invalid email must not reach the relay, got %d calls", len(*got))
	}
}

func TestContactSubmitRelayFailure(t *testing.T) {
	router := newTestRouter(t)
	srv, _ := relayCapture(t, false)
	relayClient = relay.NewClient("test-key", relay.WithEndpoint(srv.URL))

	b := newBrowser(t, router)
	rec := b.post("/contact", "email=ada@example.com&redirect=/contact")

	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "sent=0") {
		t.Fatalf("expected failure redirect, got %q", loc)
	}
	if !strings.Contains(loc, "email=ada%40example.com") {
		t.Fatalf("expected email carried back for the re-rendered form, got %q", loc)
	}
}

func TestContactFailureKeepsFormValues(t *testing.T) {
	router := newTestRouter(t)
	srv, _ := relayCapture(t, false)
	relayClient = relay.NewClient("test-key", relay.WithEndpoint(srv.URL))

	b := newBrowser(t, router)
	rec := b.post("/contact", url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"phone":    {"+34 600 000 000"},
		"message":  {"Quote for a landing page"},
		"redirect": {"/contact"},
	}.Encode())

	page := b.get(rec.Header().Get("Location"))
	body := page.Body.String()
	for _, want := range []string{
		"Ada",
		"ada@example.com",
		"+34 600 000 000",
		"Quote for a landing page",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("re-rendered form missing %q; body=%s", want, body)
		}
	}
}

func TestQuickContactSubjectLine(t *testing.T) {
	router := newTestRouter(t)
	srv, got := relayCapture(t, true)
	relayClient = relay.NewClient("test-key", relay.WithEndpoint(srv.URL))

	b := newBrowser(t, router)
	b.post("/contact", url.Values{
		"form":       {"quick-contact"},
		"email":      {"ada@example.com"},
		"page_title": {"SEO"},
	}.Encode())

	if len(*got) != 1 {
		t.Fatalf("expected one relay call, got %d", len(*got))
	}
	env := (*got)[0]
	if env["subject"] != "Quick Contact from SEO" {
		t.Errorf("unexpected subject %v", env["subject"])
	}
	if env["from_name"] != "Website Visitor" {
		t.Errorf("expected default from_name, got %v", env["from_name"])
	}
	if env["message"] != "(no message)" {
		t.Errorf("expected default message, got %v", env["message"])
	}
}

func TestQuoteRequestSendsOrderDocument(t *testing.T) {
	router := newTestRouter(t)
	srv, got := relayCapture(t, true)
	relayClient = relay.NewClient("test-key", relay.WithEndpoint(srv.URL))

	b := newBrowser(t, router)
	b.post("/cart/items", "service=seo&task=seo-audit&selected=1&tier=M")
	b.post("/cart/items/seo-audit/modifier", "field=languages&delta=1")
	rec := b.post("/cart/request", url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Start next month please"},
		"redirect": {"/cart"},
	}.Encode())

	if loc := rec.Header().Get("Location"); loc != "/cart?sent=1" {
		t.Fatalf("expected success redirect, got %q", loc)
	}
	if len(*got) != 1 {
		t.Fatalf("expected one relay call, got %d", len(*got))
	}
	msg, _ := (*got)[0]["message"].(string)
	for _, want := range []string{
		"ORDER DETAILS",
		"SEO Audit (M",
		"Languages: +1",
		"GRAND TOTAL: $1,280",
		"COMMENT:",
		"Start next month please",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("order document missing %q:\n%s", want, msg)
		}
	}
}

func TestQuoteRequestEmptyCart(t *testing.T) {
	router := newTestRouter(t)
	srv, got := relayCapture(t, true)
	relayClient = relay.NewClient("test-key", relay.WithEndpoint(srv.URL))

	b := newBrowser(t, router)
	rec := b.post("/cart/request", "email=ada@example.com&redirect=/cart")

	if loc := rec.Header().Get("Location"); loc != "/cart?sent=1" {
		t.Fatalf("expected success redirect, got %q", loc)
	}
	msg, _ := (*got)[0]["message"].(string)
	if !strings.Contains(msg, "GRAND TOTAL: $0") {
		t.Errorf("expected zero total document, got:\n%s", msg)
	}
}
