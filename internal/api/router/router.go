package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/pratik-mahalle/cisaudit/docs"
	"github.com/pratik-mahalle/cisaudit/internal/api/handlers"
	"github.com/pratik-mahalle/cisaudit/internal/api/middleware"
	"github.com/pratik-mahalle/cisaudit/internal/config"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/metrics"
)

// exportRPS limits workbook downloads per user
const (
	exportRPS   = 2
	exportBurst = 5
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Catalog   *handlers.CatalogHandler
	Audit     *handlers.AuditHandler
	Export    *handlers.ExportHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	// metrics wraps the writer first so handlers still reach the logger's
	r.Use(metrics.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	// Swagger UI needs inline scripts, so it gets no CSP
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", metrics.Handler())

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.RefreshToken)
		r.Post("/api/v1/auth/logout", h.Auth.Logout)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		r.Get("/api/v1/auth/me", h.Auth.Me)
		r.Get("/api/v1/dashboard", h.Dashboard.Get)

		// Catalog
		r.Route("/api/v1/platforms", func(r chi.Router) {
			r.Get("/", h.Catalog.ListPlatforms)
			r.Get("/{slug}", h.Catalog.GetPlatform)
		})
		r.Route("/api/v1/benchmarks", func(r chi.Router) {
			r.Get("/", h.Catalog.ListBenchmarks)
			r.Get("/{id}", h.Catalog.GetBenchmark)
			r.Get("/{id}/sections/{sectionId}", h.Catalog.GetSection)
		})
		r.Route("/api/v1/checks", func(r chi.Router) {
			r.Get("/search", h.Catalog.SearchChecks)
			r.Get("/{id}", h.Catalog.GetCheck)
		})

		// Audit sessions
		r.Route("/api/v1/audits", func(r chi.Router) {
			r.Get("/", h.Audit.List)
			r.Post("/", h.Audit.Create)
			r.Get("/{id}", h.Audit.Get)
			r.Delete("/{id}", h.Audit.Delete)
			r.Put("/{id}/checks/{checkId}", h.Audit.UpdateResult)
			r.Post("/{id}/complete", h.Audit.Complete)
		})

		// Workbook downloads
		r.Route("/api/v1/export", func(r chi.Router) {
			r.Use(middleware.UserRateLimit(exportRPS, exportBurst))
			r.Get("/benchmarks/{id}", h.Export.Checklist)
			r.Get("/audits/{id}", h.Export.Audit)
		})
	})

	return r
}
