package middleware

import (
	"io"
	"net/http"
)

// the routes take no body, larger leftovers are closed without draining
const maxDrainBytes = 64 * 1024

// DrainAndCloseRequest drains what is left of the request body, so the connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
				_ = r.Body.Close()
			}
		})
	}
}
