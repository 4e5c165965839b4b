package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
)

// Recovery turns a panic into a 500 response. The panic value only goes to
// the log; clients get the request id to quote.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := GetRequestID(r)
				log.WithFields(map[string]interface{}{
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": requestID,
				}).Error("Panic recovered")

				appErr := errors.Internal("Internal server error", fmt.Errorf("panic: %v", rec))
				if requestID != "" {
					appErr = appErr.WithDetails(map[string]interface{}{"request_id": requestID})
				}
				utils.WriteError(w, appErr)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
