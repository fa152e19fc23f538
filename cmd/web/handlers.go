package main

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zedzima/vividigit-site/internal/content"
	"github.com/zedzima/vividigit-site/internal/seo"
)

// serviceSchema builds the schema.org Service payload, using the cheapest
// non-custom tier as the starting price.
func serviceSchema(svc content.Service) string {
	starting := 0
	for _, task := range svc.Tasks {
		for _, tier := range task.Tiers {
			if tier.Custom || tier.Price <= 0 {
				continue
			}
			if starting == 0 || tier.Price < starting {
				starting = tier.Price
			}
		}
	}
	return seo.JSON(seo.Service(svc.Title, svc.Summary, cfg.Site.BaseURL+svc.Page(), "Vividigit", starting, cfg.Payment.Currency))
}

// HomeHandler renders the landing page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	vm := newPageData(r, "Vividigit")
	vm.Services = catalog.All()
	vm.JSONLD = append(vm.JSONLD, template.JS(seo.JSON(seo.WebSite("Vividigit", cfg.Site.BaseURL))))
	render(w, "home", vm)
}

// ServicesHandler renders the services listing.
func ServicesHandler(w http.ResponseWriter, r *http.Request) {
	vm := newPageData(r, "Services")
	vm.Services = catalog.All()
	render(w, "services", vm)
}

// ServicePageHandler renders one service page with its order builder and the
// page-scoped cart sidebar.
func ServicePageHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	svc, err := catalog.Get(slug)
	if errors.Is(err, content.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.Error("load service", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	store := cartStore(w, r)
	view, err := buildServiceView(svc, store.Cart())
	if err != nil {
		logger.Error("render service body", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	vm := newPageData(r, svc.Title)
	vm.Service = view
	vm.Cart = buildCartView(store.Cart(), svc.Page())
	vm.SEO.Description = svc.Summary
	vm.SEO.OG.Description = svc.Summary
	if schema := serviceSchema(svc); schema != "" {
		vm.JSONLD = append(vm.JSONLD, template.JS(schema))
	}
	render(w, "service", vm)
}

// CartPageHandler renders the full cart across every page.
func CartPageHandler(w http.ResponseWriter, r *http.Request) {
	store := cartStore(w, r)
	vm := newPageData(r, "Your order")
	vm.Cart = buildCartView(store.Cart(), "")
	vm.Form = formFromQuery(r)
	render(w, "cart", vm)
}

// formFromQuery restores contact fields carried back after a failed dispatch.
func formFromQuery(r *http.Request) FormValues {
	q := r.URL.Query()
	email := q.Get("email")
	if email == "invalid" {
		email = ""
	}
	return FormValues{
		Name:    q.Get("name"),
		Email:   email,
		Phone:   q.Get("phone"),
		Message: q.Get("message"),
	}
}

// ContactPageHandler renders the contact form. A failed checkout hands the
// visitor over here with the order summary prefilled.
func ContactPageHandler(w http.ResponseWriter, r *http.Request) {
	vm := newPageData(r, "Contact")
	vm.Order = r.URL.Query().Get("order")
	vm.Form = formFromQuery(r)
	render(w, "contact", vm)
}
