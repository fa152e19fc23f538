// Command checkout is the payment edge service. It accepts cart submissions
// from the web front end and creates hosted checkout orders with the payment
// provider.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zedzima/vividigit-site/internal/config"
	"github.com/zedzima/vividigit-site/internal/observability"
	"github.com/zedzima/vividigit-site/internal/payment"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadCheckout()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	provider := payment.NewRevolutProvider(cfg.Revolut.APIKey, cfg.Revolut.Environment)
	r := newRouter(cfg, logger, provider)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	logger.Info("checkout service listening",
		zap.String("port", cfg.Server.Port),
		zap.String("revolut_env", cfg.Revolut.Environment),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newRouter(cfg config.CheckoutConfig, logger *zap.Logger, provider payment.Provider) chi.Router {
	h := &handler{
		provider: provider,
		origin:   cfg.AllowedOrigin,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(h.cors)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/create-order", h.createOrder)
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)

	return r
}
