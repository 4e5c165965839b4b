package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
	"github.com/pratik-mahalle/cisaudit/internal/services"
)

// ExportHandler streams generated workbooks
type ExportHandler struct {
	exporter services.Exporter
	logger   *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter services.Exporter, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		logger:   log,
	}
}

// Checklist downloads a benchmark checklist
// @Summary Export checklist
// @Description Download a blank checklist workbook for a benchmark
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Benchmark ID"
// @Param level query int false "Only checks of this level (1 or 2)"
// @Param scored_only query bool false "Only scored checks"
// @Success 200 {file} file
// @Failure 404 {object} utils.ErrorResponse "Benchmark not found"
// @Security BearerAuth
// @Router /export/benchmarks/{id} [get]
func (h *ExportHandler) Checklist(w http.ResponseWriter, r *http.Request) {
	benchmarkID, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid benchmark ID")
		return
	}

	q := r.URL.Query()
	filter := catalog.CheckFilter{
		Level:      parseLevel(q.Get("level")),
		ScoredOnly: q.Get("scored_only") == "true",
	}

	file, err := h.exporter.Checklist(r.Context(), benchmarkID, filter)
	if err != nil {
		writeServiceError(w, err, "Failed to export checklist")
		return
	}

	utils.WriteAttachment(w, file.ContentType, file.Name, file.Data)
}

// Audit downloads an audit report
// @Summary Export audit
// @Description Download the workbook of an audit session with results and summary
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Session ID"
// @Success 200 {file} file
// @Failure 403 {object} utils.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} utils.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /export/audits/{id} [get]
func (h *ExportHandler) Audit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid session ID")
		return
	}

	file, err := h.exporter.Audit(r.Context(), userID, sessionID)
	if err != nil {
		writeServiceError(w, err, "Failed to export audit")
		return
	}

	utils.WriteAttachment(w, file.ContentType, file.Name, file.Data)
}
