package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/validator"
)

// AuditHandler handles audit session requests
type AuditHandler struct {
	audits    audit.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService audit.Service, log *logger.Logger, val *validator.Validator) *AuditHandler {
	return &AuditHandler{
		audits:    auditService,
		logger:    log,
		validator: val,
	}
}

// List lists the caller's audit sessions
// @Summary List audit sessions
// @Description List the caller's sessions, newest first, with progress
// @Tags Audits
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.PaginatedResponse
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	params := utils.ParsePaginationParams(r)
	sessions, total, err := h.audits.List(r.Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list audit sessions")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(
		dto.ToSessionDTOs(sessions), params.Page, params.PageSize, total,
	))
}

// Create starts an audit session
// @Summary Start audit
// @Description Start a session with one not_checked result per check of the benchmark
// @Tags Audits
// @Accept json
// @Produce json
// @Param request body dto.CreateAuditRequest true "Audit target"
// @Success 201 {object} dto.CreateAuditResponse
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Failure 404 {object} utils.ErrorResponse "Benchmark not found"
// @Security BearerAuth
// @Router /audits [post]
func (h *AuditHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	session, err := h.audits.Create(r.Context(), userID, audit.NewSession{
		BenchmarkID: req.BenchmarkID,
		TargetName:  req.TargetName,
		TargetIP:    req.TargetIP,
		Notes:       req.Notes,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create audit session")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.CreateAuditResponse{
		Session:       dto.ToSessionDTO(session),
		ChecksCreated: session.Counts.Total,
	})
}

// Get returns a session with its results and summary
// @Summary Get audit
// @Tags Audits
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.AuditDetailResponse
// @Failure 403 {object} utils.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} utils.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /audits/{id} [get]
func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid session ID")
		return
	}

	detail, err := h.audits.GetDetail(r.Context(), userID, sessionID)
	if err != nil {
		writeServiceError(w, err, "Failed to get audit session")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.AuditDetailResponse{
		Session: dto.ToSessionDTO(detail.Session),
		Results: detail.Results,
		Summary: detail.Summary,
	})
}

// UpdateResult records the outcome of one check
// @Summary Update result
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param checkId path int true "Check ID"
// @Param request body dto.UpdateResultRequest true "Status and finding"
// @Success 200 {object} audit.Result
// @Failure 400 {object} utils.ErrorResponse "Invalid status"
// @Failure 403 {object} utils.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} utils.ErrorResponse "Result not found"
// @Security BearerAuth
// @Router /audits/{id}/checks/{checkId} [put]
func (h *AuditHandler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid session ID")
		return
	}
	checkID, err := idParam(r, "checkId")
	if err != nil {
		writeServiceError(w, err, "Invalid check ID")
		return
	}

	var req dto.UpdateResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	result, err := h.audits.UpdateResult(r.Context(), userID, sessionID, checkID, req.Status, req.Finding)
	if err != nil {
		writeServiceError(w, err, "Failed to update result")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, result)
}

// Complete marks a session completed
// @Summary Complete audit
// @Tags Audits
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.SessionDTO
// @Failure 403 {object} utils.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} utils.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /audits/{id}/complete [post]
func (h *AuditHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid session ID")
		return
	}

	session, err := h.audits.Complete(r.Context(), userID, sessionID)
	if err != nil {
		writeServiceError(w, err, "Failed to complete audit session")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToSessionDTO(session))
}

// Delete removes a session and its results
// @Summary Delete audit
// @Tags Audits
// @Param id path int true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} utils.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /audits/{id} [delete]
func (h *AuditHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, err, "Invalid session ID")
		return
	}

	if err := h.audits.Delete(r.Context(), userID, sessionID); err != nil {
		writeServiceError(w, err, "Failed to delete audit session")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Audit session deleted", nil)
}
