package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// Cors lets the display client, served from another origin, call the api.
func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Accept", "Content-Type", "Content-Length", TokenHeader}),
	)
}
