package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/rentledger/internal/adapter/http/handler"
	"github.com/iho/rentledger/internal/adapter/http/middleware"
	"github.com/iho/rentledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DepositHandler    *handler.DepositHandler
	InspectionHandler *handler.InspectionHandler
	DeductionHandler  *handler.DeductionHandler
	SettlementHandler *handler.SettlementHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	Logging           *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Deposits
		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", cfg.DepositHandler.Create)
			r.Get("/", cfg.DepositHandler.List)
			r.Get("/tenant/{tenantID}", cfg.DepositHandler.GetByTenant)
			r.Get("/property/{propertyID}", cfg.DepositHandler.GetByProperty)
			r.Delete("/{id}", cfg.DepositHandler.Delete)
		})

		// Inspections
		r.Route("/inspections", func(r chi.Router) {
			r.Post("/", cfg.InspectionHandler.Start)
			r.Get("/{id}", cfg.InspectionHandler.Get)
			r.Put("/{id}/checklist", cfg.InspectionHandler.UpdateChecklist)
			r.Put("/{id}/notes", cfg.InspectionHandler.UpdateNotes)
			r.Post("/{id}/photos", cfg.InspectionHandler.AddPhotos)
			r.Post("/{id}/complete", cfg.SettlementHandler.Complete)
			r.Post("/{id}/deductions", cfg.DeductionHandler.Add)
			r.Get("/{id}/deductions", cfg.DeductionHandler.ListByInspection)
		})

		// Deductions
		r.Route("/deductions", func(r chi.Router) {
			r.Delete("/{id}", cfg.DeductionHandler.Remove)
			r.Post("/{id}/dispute", cfg.DeductionHandler.Dispute)
		})

		// Refunds
		r.Post("/refunds", cfg.SettlementHandler.Refund)

		// Ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		r.Get("/ledger/audit", cfg.LedgerHandler.ListAuditLogs)
	})

	return r
}
