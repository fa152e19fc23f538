// Command web serves the marketing site: service pages with an order
// builder, the cart review page, and contact/quote dispatch.
package main

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zedzima/vividigit-site/internal/cart"
	"github.com/zedzima/vividigit-site/internal/config"
	"github.com/zedzima/vividigit-site/internal/content"
	"github.com/zedzima/vividigit-site/internal/format"
	"github.com/zedzima/vividigit-site/internal/i18n"
	"github.com/zedzima/vividigit-site/internal/observability"
	"github.com/zedzima/vividigit-site/internal/payment"
	"github.com/zedzima/vividigit-site/internal/relay"
	"github.com/zedzima/vividigit-site/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var (
	cfg           config.WebConfig
	logger        *zap.Logger
	tmplCache     *template.Template
	i18nBundle    *i18n.Bundle
	catalog       *content.Catalog
	relayClient   *relay.Client
	paymentClient *payment.Client
	sessionCodec  *session.Codec
	pricing       = cart.DefaultPricing
)

func main() {
	var err error
	logger, err = observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err = config.LoadWeb()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	tmplCache, err = parseTemplates()
	if err != nil {
		logger.Fatal("parse templates", zap.Error(err))
	}
	i18nBundle, err = i18n.LoadDefault(cfg.Site.DefaultLang)
	if err != nil {
		logger.Fatal("load locales", zap.Error(err))
	}
	catalog, err = content.LoadDefault()
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	relayClient = relay.NewClient(cfg.Relay.AccessKey, relay.WithEndpoint(cfg.Relay.Endpoint))
	paymentClient = payment.NewClient(cfg.Payment.CheckoutURL)
	sessionCodec = session.NewCodec(cfg.Session.SigningKey, cfg.Session.Secure)

	r := newRouter()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	logger.Info("web listening", zap.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(static)))

	r.Get("/", HomeHandler)
	r.Get("/services", ServicesHandler)
	r.Get("/services/{slug}", ServicePageHandler)
	r.Get("/cart", CartPageHandler)
	r.Get("/contact", ContactPageHandler)

	r.Post("/cart/items", CartAddHandler)
	r.Post("/cart/items/{slug}/tier", CartTierHandler)
	r.Post("/cart/items/{slug}/delivery", CartDeliveryHandler)
	r.Post("/cart/items/{slug}/modifier", CartModifierHandler)
	r.Post("/cart/items/{slug}/remove", CartRemoveHandler)
	r.Post("/cart/clear", CartClearHandler)
	r.Post("/cart/restore", CartRestoreHandler)

	r.Post("/contact", ContactSubmitHandler)
	r.Post("/cart/request", QuoteRequestHandler)
	r.Post("/cart/checkout", CheckoutHandler)

	r.Post("/prefs/theme", ThemePrefHandler)
	r.Post("/prefs/lang", LangPrefHandler)

	return r
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now":     time.Now,
		"dollars": format.Dollars,
		"price":   format.Price,
		"t": func(lang, key string) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.T(lang, key)
		},
	}
	t, err := template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if tmplCache == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return
	}
	if err := tmplCache.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("template exec", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// cartStore binds a freshly rehydrated cart store to this exchange. Every
// mutation through it writes the signed cookie back onto w.
func cartStore(w http.ResponseWriter, r *http.Request) *cart.Store {
	return cart.NewStore(pricing, sessionCodec.ForRequest(w, r))
}

// redirectBack sends the browser to the posted redirect target, falling back
// to the referring page and finally the cart. Only site-local paths are
// honoured.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.FormValue("redirect")
	if target == "" {
		if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" {
			target = ref.Path
			if ref.RawQuery != "" {
				target += "?" + ref.RawQuery
			}
		}
	}
	if target == "" || target[0] != '/' {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func absoluteURL(r *http.Request) string {
	base := cfg.Site.BaseURL
	if base == "" {
		scheme := "https"
		if r.TLS == nil {
			scheme = "http"
		}
		base = scheme + "://" + r.Host
	}
	return base + r.URL.Path
}
