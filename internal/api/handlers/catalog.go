package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
)

// CatalogHandler serves the read-only benchmark catalog
type CatalogHandler struct {
	catalog catalog.Service
	logger  *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService catalog.Service, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogService,
		logger:  log,
	}
}

// ListPlatforms lists platforms
// @Summary List platforms
// @Description List platforms ordered by OS family and name
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Platform
// @Security BearerAuth
// @Router /platforms [get]
func (h *CatalogHandler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.catalog.ListPlatforms(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list platforms")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, platforms)
}

// GetPlatform returns a platform with its benchmarks
// @Summary Get platform
// @Tags Catalog
// @Produce json
// @Param slug path string true "Platform slug"
// @Success 200 {object} catalog.PlatformDetail
// @Failure 404 {object} utils.ErrorResponse "Platform not found"
// @Security BearerAuth
// @Router /platforms/{slug} [get]
func (h *CatalogHandler) GetPlatform(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetPlatform(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err, "Failed to get platform")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, detail)
}

// ListBenchmarks lists benchmarks
// @Summary List benchmarks
// @Description List benchmarks ordered by name, with platform and check totals
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Benchmark
// @Security BearerAuth
// @Router /benchmarks [get]
func (h *CatalogHandler) ListBenchmarks(w http.ResponseWriter, r *http.Request) {
	benchmarks, err := h.catalog.ListBenchmarks(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list benchmarks")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, benchmarks)
}

// GetBenchmark returns a benchmark with its top-level sections
// @Summary Get benchmark
// @Tags Catalog
// @Produce json
// @Param id path int true "Benchmark ID"
// @Success 200 {object} catalog.BenchmarkDetail
// @Failure 404 {object} utils.ErrorResponse "Benchmark not found"
// @Security BearerAuth
// @Router /benchmarks/{id} [get]
func (h *CatalogHandler) GetBenchmark(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid benchmark ID")
		return
	}

	detail, err := h.catalog.GetBenchmark(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get benchmark")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, detail)
}

// GetSection returns a section with its checks and breadcrumb
// @Summary Get section
// @Description Get a section of a benchmark with every check beneath it
// @Tags Catalog
// @Produce json
// @Param id path int true "Benchmark ID"
// @Param sectionId path int true "Section ID"
// @Success 200 {object} catalog.SectionDetail
// @Failure 404 {object} utils.ErrorResponse "Section not found in benchmark"
// @Security BearerAuth
// @Router /benchmarks/{id}/sections/{sectionId} [get]
func (h *CatalogHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	benchmarkID, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid benchmark ID")
		return
	}
	sectionID, err := idParam(r, "sectionId")
	if err != nil {
		writeServiceError(w, err, "Invalid section ID")
		return
	}

	detail, err := h.catalog.GetSection(r.Context(), benchmarkID, sectionID)
	if err != nil {
		writeServiceError(w, err, "Failed to get section")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, detail)
}

// GetCheck returns a check with its section, benchmark and breadcrumb
// @Summary Get check
// @Tags Catalog
// @Produce json
// @Param id path int true "Check ID"
// @Success 200 {object} catalog.CheckDetail
// @Failure 404 {object} utils.ErrorResponse "Check not found"
// @Security BearerAuth
// @Router /checks/{id} [get]
func (h *CatalogHandler) GetCheck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid check ID")
		return
	}

	detail, err := h.catalog.GetCheck(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get check")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, detail)
}

// SearchChecks searches checks across benchmarks
// @Summary Search checks
// @Description Case-insensitive search over title, number, description and audit command
// @Tags Catalog
// @Produce json
// @Param q query string false "Search text"
// @Param platform query string false "Platform slug"
// @Param level query int false "Level (1 or 2)"
// @Param scored query bool false "Scored flag"
// @Success 200 {object} dto.CheckHitsResponse
// @Security BearerAuth
// @Router /checks/search [get]
func (h *CatalogHandler) SearchChecks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.SearchQuery{
		Text:         strings.TrimSpace(q.Get("q")),
		PlatformSlug: strings.TrimSpace(q.Get("platform")),
		Level:        parseLevel(q.Get("level")),
		Scored:       parseOptionalBool(q.Get("scored")),
		Limit:        catalog.SearchLimit,
	}

	hits, err := h.catalog.SearchChecks(r.Context(), query)
	if err != nil {
		writeServiceError(w, err, "Failed to search checks")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.CheckHitsResponse{
		Query:   query.Text,
		Results: hits,
		Count:   len(hits),
		Limit:   query.Limit,
	})
}
