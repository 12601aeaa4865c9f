package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/adapter/http/handler"
	"github.com/iho/treasury/internal/adapter/http/middleware"
	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/auth"
	"github.com/iho/treasury/internal/infrastructure/metrics"
	"github.com/iho/treasury/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler      *handler.AccountHandler
	JournalHandler      *handler.JournalHandler
	ContributionHandler *handler.ContributionHandler
	ExpenseHandler      *handler.ExpenseHandler
	BudgetHandler       *handler.BudgetHandler
	LedgerHandler       *handler.LedgerHandler
	HealthHandler       *handler.HealthHandler

	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RequestTimeout   time.Duration

	// JWTManager enables authentication and role checks when set.
	JWTManager *auth.JWTManager
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// gate restricts a route to roles accepted by allowed. Without
	// authentication every caller passes.
	gate := func(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
		if cfg.JWTManager == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RequireRole(allowed, cfg.Metrics)
	}
	manageFunds := gate(domain.Role.CanManageFunds)
	recordContributions := gate(domain.Role.CanRecordContributions)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.Authenticate(cfg.JWTManager, cfg.Metrics))
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Metrics).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.With(manageFunds).Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Get("/{code}/balance", cfg.AccountHandler.Balance)
			r.With(manageFunds).Post("/{code}/deactivate", cfg.AccountHandler.Deactivate)
			r.With(manageFunds).Post("/{code}/activate", cfg.AccountHandler.Activate)
		})
		r.Get("/balances", cfg.AccountHandler.TrialBalance)

		r.Route("/journal-entries", func(r chi.Router) {
			r.With(manageFunds).Post("/", cfg.JournalHandler.Post)
			r.Get("/", cfg.JournalHandler.List)
			r.Get("/{id}", cfg.JournalHandler.Get)
			r.With(manageFunds).Post("/{id}/reverse", cfg.JournalHandler.Reverse)
		})

		r.Route("/contribution-batches", func(r chi.Router) {
			r.With(recordContributions).Post("/", cfg.ContributionHandler.Create)
			r.Get("/", cfg.ContributionHandler.List)
			r.Get("/{id}", cfg.ContributionHandler.Get)
			r.With(recordContributions).Post("/{id}/post", cfg.ContributionHandler.Post)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Claim)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.With(manageFunds).Post("/{id}/approve", cfg.ExpenseHandler.Approve)
			r.With(manageFunds).Post("/{id}/reject", cfg.ExpenseHandler.Reject)
			r.With(manageFunds).Post("/{id}/pay", cfg.ExpenseHandler.Pay)
		})

		r.Route("/fiscal-years", func(r chi.Router) {
			r.With(manageFunds).Post("/", cfg.BudgetHandler.CreateFiscalYear)
			r.Get("/", cfg.BudgetHandler.ListFiscalYears)
			r.Get("/{id}", cfg.BudgetHandler.GetFiscalYear)
			r.Get("/{id}/budget-lines", cfg.BudgetHandler.ListLines)
			r.With(manageFunds).Put("/{id}/budget-lines/{code}", cfg.BudgetHandler.SetLine)
			r.Get("/{id}/budget-vs-actual", cfg.BudgetHandler.Report)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Get("/balances/verify", cfg.LedgerHandler.VerifyBalances)
			r.With(manageFunds).Post("/balances/rebuild", cfg.LedgerHandler.RebuildBalances)
		})
	})

	return r
}
