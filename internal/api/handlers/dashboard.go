package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
)

// recentSessions is how many sessions the dashboard shows
const recentSessions = 5

// DashboardHandler serves the landing page summary
type DashboardHandler struct {
	catalog catalog.Service
	audits  audit.Service
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(catalogService catalog.Service, auditService audit.Service, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		catalog: catalogService,
		audits:  auditService,
		logger:  log,
	}
}

// Get returns the dashboard
// @Summary Dashboard
// @Description Platforms, benchmarks, the total check count and the caller's most recent sessions
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	platforms, err := h.catalog.ListPlatforms(ctx)
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard")
		return
	}
	benchmarks, err := h.catalog.ListBenchmarks(ctx)
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard")
		return
	}
	counts, err := h.catalog.Counts(ctx)
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard")
		return
	}
	sessions, _, err := h.audits.List(ctx, userID, recentSessions, 0)
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.DashboardResponse{
		Platforms:      platforms,
		Benchmarks:     benchmarks,
		TotalChecks:    counts.Checks,
		RecentSessions: dto.ToSessionDTOs(sessions),
	})
}
