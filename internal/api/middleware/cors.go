package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS returns a CORS middleware with the given allowed origins.
// Content-Disposition is exposed so browser clients can read export filenames.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
			"Content-Disposition",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// DefaultCORS allows the comma-separated origins in frontendURLs, plus the
// usual dev-server ports when one of them is local.
func DefaultCORS(frontendURLs string) func(http.Handler) http.Handler {
	return CORS(allowedOrigins(frontendURLs))
}

func allowedOrigins(frontendURLs string) []string {
	var origins []string
	local := false
	for _, o := range strings.Split(frontendURLs, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		origins = append(origins, o)
		if strings.Contains(o, "localhost") || strings.Contains(o, "127.0.0.1") {
			local = true
		}
	}

	if local {
		for _, dev := range []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000", "http://127.0.0.1:5173"} {
			if !contains(origins, dev) {
				origins = append(origins, dev)
			}
		}
	}
	return origins
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
