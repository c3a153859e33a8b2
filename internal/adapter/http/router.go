package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"numledger/internal/adapter/http/handler"
	"numledger/internal/adapter/http/middleware"
	"numledger/internal/infrastructure/metrics"
	"numledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler     *handler.EntryHandler
	SummaryHandler   *handler.SummaryHandler
	FilterHandler    *handler.FilterHandler
	HistoryHandler   *handler.HistoryHandler
	BalanceHandler   *handler.BalanceHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Metrics          *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/projects/{projectID}", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotency.Wrap)
		}

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Post("/batch", cfg.EntryHandler.CreateBatch)
			r.Post("/batch-delete", cfg.EntryHandler.BatchDelete)
			r.Post("/bulk-text/preview", cfg.EntryHandler.BulkPreview)
			r.Post("/bulk-text", cfg.EntryHandler.BulkCommit)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Patch("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
		})

		r.Get("/summaries", cfg.SummaryHandler.List)
		r.Get("/extremes", cfg.SummaryHandler.Extremes)

		r.Route("/filter", func(r chi.Router) {
			r.Post("/evaluate", cfg.FilterHandler.Evaluate)
			r.Post("/apply", cfg.FilterHandler.Apply)
		})

		r.Get("/history", cfg.HistoryHandler.List)
		r.Post("/undo", cfg.HistoryHandler.Undo)
		r.Post("/redo", cfg.HistoryHandler.Redo)

		r.Get("/balance", cfg.BalanceHandler.Get)
	})

	return r
}
