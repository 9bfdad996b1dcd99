package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/2beens/fitweek/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const TokenHeader = "X-FITWEEK-TOKEN"

type AuthMiddlewareHandler struct {
	apiToken     string
	allowedPaths map[string]bool
}

// NewAuthMiddlewareHandler guards every path not listed as public with the api token.
// With an empty token the check is off.
func NewAuthMiddlewareHandler(apiToken string) *AuthMiddlewareHandler {
	if apiToken == "" {
		log.Warnln("auth middleware: api token not set, all paths are public")
	}
	return &AuthMiddlewareHandler{
		apiToken: apiToken,
		allowedPaths: map[string]bool{
			"/":               true,
			"/week":           true,
			"/tracker/status": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions || h.apiToken == "" || h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get(TokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(authToken), []byte(h.apiToken)) != 1 {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
