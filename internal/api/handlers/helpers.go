package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/cisaudit/internal/api/middleware"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
)

// writeServiceError writes err as returned by a service, hiding anything
// that is not an AppError behind a generic 500
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := err.(*errors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal(fallback, err))
}

// idParam parses a positive integer URL parameter
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid " + name)
	}
	return id, nil
}

// requireUser returns the authenticated user ID or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return 0, false
	}
	return userID, true
}

// parseLevel accepts "1" or "2"; anything else means no level filter
func parseLevel(v string) int {
	switch v {
	case "1":
		return catalog.Level1
	case "2":
		return catalog.Level2
	}
	return 0
}

// parseOptionalBool accepts "true" or "false"; anything else is nil
func parseOptionalBool(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}
