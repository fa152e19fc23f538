package main

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/zedzima/vividigit-site/internal/payment"
)

// CheckoutHandler hands the cart to the checkout service and redirects the
// visitor to the hosted payment page. Any failure falls back to the contact
// page with the order summary prefilled, so no sale is lost to a payment
// outage.
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	store := cartStore(w, r)
	c := store.Cart()

	total, hasCustom := c.Total()
	if c.Len() == 0 || total <= 0 || hasCustom {
		// Custom-priced work cannot be charged online; route to a quote.
		http.Redirect(w, r, contactFallbackURL(c.SummaryText()), http.StatusSeeOther)
		return
	}

	req := payment.CreateOrderRequest{
		Items:     map[string]payment.OrderItem{},
		Total:     total,
		Currency:  cfg.Payment.Currency,
		PageURL:   absoluteURL(r),
		Modifiers: payment.Modifiers{},
	}
	for _, it := range c.Items() {
		req.Items[it.Slug] = payment.OrderItem{
			Title:    it.Title,
			TierName: it.TierName,
			Price:    it.Price,
		}
		req.Modifiers.Languages += it.LanguageCount
		req.Modifiers.Countries += it.CountryCount
	}

	order, err := paymentClient.CreateOrder(r.Context(), req)
	if err != nil {
		logger.Warn("checkout unavailable, falling back to contact", zap.Error(err))
		http.Redirect(w, r, contactFallbackURL(c.SummaryText()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, order.CheckoutURL, http.StatusSeeOther)
}

func contactFallbackURL(summary string) string {
	return "/contact?order=" + url.QueryEscape(summary)
}
