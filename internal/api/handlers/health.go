package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
)

// Version is overridden at build time with -ldflags "-X ...handlers.Version=v1.2.3"
var Version = "dev"

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	db      *sql.DB
	logger  *logger.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		logger:  log,
		started: time.Now(),
	}
}

// ReadinessStatus reports what the server needs before taking traffic
type ReadinessStatus struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Migrations int    `json:"migrations"`
	Benchmarks int    `json:"benchmarks"`
}

// Healthz handles liveness probe
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is alive"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
		"uptime":  time.Since(h.started).Truncate(time.Second).String(),
	})
}

// Readyz handles readiness probe. The server is ready once the database
// answers, migrations have run and at least one benchmark is loaded.
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} ReadinessStatus
// @Failure 503 {object} utils.ErrorResponse "Service unavailable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorWithErr(err, "Database ping failed")
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database connection failed")
		return
	}

	status := ReadinessStatus{Status: "ready", Database: "connected"}

	if err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&status.Migrations); err != nil || status.Migrations == 0 {
		h.logger.With("error", err).Warn("Readiness: migrations not applied")
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database schema not migrated")
		return
	}

	if err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM benchmarks").Scan(&status.Benchmarks); err != nil || status.Benchmarks == 0 {
		h.logger.With("error", err).Warn("Readiness: benchmark catalog empty")
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Benchmark catalog not loaded")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, status)
}
