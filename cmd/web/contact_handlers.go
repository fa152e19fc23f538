package main

import (
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/zedzima/vividigit-site/internal/relay"
)

// contactOutcome redirects back to the posting page with a one-shot flash
// parameter describing how the dispatch went. Failed dispatches carry the
// visitor's form fields back so the re-rendered form keeps them.
func contactOutcome(w http.ResponseWriter, r *http.Request, fallback string, err error) {
	params := url.Values{}
	switch {
	case errors.Is(err, relay.ErrInvalidEmail):
		params.Set("email", "invalid")
	case err != nil:
		logger.Error("relay dispatch", zap.Error(err))
		params.Set("sent", "0")
	default:
		params.Set("sent", "1")
	}
	if err != nil {
		if name := r.FormValue("name"); name != "" {
			params.Set("name", name)
		}
		if email := r.FormValue("email"); email != "" && params.Get("email") == "" {
			params.Set("email", email)
		}
		if phone := r.FormValue("phone"); phone != "" {
			params.Set("phone", phone)
		}
		if message := r.FormValue("message"); message != "" {
			params.Set("message", message)
		}
	}

	target := r.FormValue("redirect")
	if target == "" || target[0] != '/' {
		target = fallback
	}
	sep := "?"
	if u, perr := url.Parse(target); perr == nil && u.RawQuery != "" {
		sep = "&"
	}
	http.Redirect(w, r, target+sep+params.Encode(), http.StatusSeeOther)
}

// trafficSource classifies where the visitor came from, using the page URL's
// UTM parameters and the external referrer captured by the form.
func trafficSource(r *http.Request, pageURL string) string {
	var query url.Values
	if u, err := url.Parse(pageURL); err == nil {
		query = u.Query()
	}
	siteHost := ""
	if u, err := url.Parse(cfg.Site.BaseURL); err == nil {
		siteHost = u.Host
	}
	return relay.TrafficSource(query, r.FormValue("referrer"), siteHost)
}

// ContactSubmitHandler dispatches the contact form through the relay.
func ContactSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := relay.ContactForm
	if r.FormValue("form") == relay.QuickContactForm.Name {
		form = relay.QuickContactForm
	}
	fields := form.Collect(r.PostForm)

	pageTitle := r.FormValue("page_title")
	if pageTitle == "" {
		pageTitle = "Vividigit"
	}
	pageURL := r.FormValue("page_url")
	if pageURL == "" {
		pageURL = absoluteURL(r)
	}

	err := relayClient.Submit(r.Context(), relay.Submission{
		Subject:       form.Subject(pageTitle),
		Name:          fields.Name,
		Email:         fields.Email,
		Phone:         fields.Phone,
		Message:       fields.Message,
		Source:        fields.Source,
		TrafficSource: trafficSource(r, pageURL),
		PageURL:       pageURL,
	})
	contactOutcome(w, r, "/contact", err)
}

// QuoteRequestHandler sends the cart as an order request message. The order
// document is rebuilt server-side from the stored cart, not from the form.
func QuoteRequestHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	store := cartStore(w, r)
	fields := relay.ContactForm.Collect(r.PostForm)
	doc := store.Cart().OrderDocument(fields.Message)

	pageURL := r.FormValue("page_url")
	if pageURL == "" {
		pageURL = absoluteURL(r)
	}

	err := relayClient.Submit(r.Context(), relay.Submission{
		Subject:       "Order Request from Vividigit",
		Name:          fields.Name,
		Email:         fields.Email,
		Phone:         fields.Phone,
		Message:       doc,
		TrafficSource: trafficSource(r, pageURL),
		PageURL:       pageURL,
	})
	contactOutcome(w, r, "/cart", err)
}
