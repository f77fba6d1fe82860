package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/yieldledger/internal/adapter/http/handler"
	"github.com/iho/yieldledger/internal/adapter/http/middleware"
	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/infrastructure/auth"
	"github.com/iho/yieldledger/internal/infrastructure/metrics"
	"github.com/iho/yieldledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	TransferHandler  *handler.TransferHandler
	CustodyHandler   *handler.CustodyHandler
	RateHandler      *handler.RateHandler
	BridgeHandler    *handler.BridgeHandler
	EntryHandler     *handler.EntryHandler
	LedgerHandler    *handler.LedgerHandler
	AuthHandler      *handler.AuthHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	RateLimiter      *middleware.RateLimiter
	Logging          *middleware.LoggingMiddleware

	// JWTManager enables authentication. When nil, every request runs as
	// DevUser instead; meant for local development only.
	JWTManager *auth.JWTManager
	DevUser    *domain.User
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Login stays outside the authenticated tree
	if cfg.AuthHandler != nil {
		r.Post("/api/v1/auth/login", cfg.AuthHandler.Login)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		} else if cfg.DevUser != nil {
			r.Use(middleware.StaticUser(cfg.DevUser))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		if cfg.AuthHandler != nil {
			r.Get("/auth/me", cfg.AuthHandler.GetCurrentUser)
			r.With(middleware.RequireRole(domain.RoleAdmin)).
				Post("/users", cfg.AuthHandler.CreateUser)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.Balance)
			r.Get("/{id}/principal", cfg.AccountHandler.Principal)
			r.Get("/{id}/rate", cfg.AccountHandler.Rate)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByAccount)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})

		// Journal entries by operation
		r.Get("/entries/ref/{id}", cfg.EntryHandler.ListByRef)

		// Custody
		r.Post("/deposits", cfg.CustodyHandler.Deposit)
		r.Post("/redemptions", cfg.CustodyHandler.Redeem)

		// Rate governance
		r.Route("/rate", func(r chi.Router) {
			r.Get("/", cfg.RateHandler.Get)
			r.Put("/", cfg.RateHandler.Set)
		})

		// Bridge
		r.Route("/bridge", func(r chi.Router) {
			r.Post("/transfers", cfg.BridgeHandler.Send)
			r.Post("/receive", cfg.BridgeHandler.Receive)
		})

		// Ledger-wide checks
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
