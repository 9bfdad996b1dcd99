package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitweek/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddlewareHandler("api-secret")

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/week",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "TrackerStatusWithoutToken",
			path:               "/tracker/status",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "RefreshWithoutToken",
			path:               "/week/refresh",
			method:             "POST",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "RefreshInvalidToken",
			path:               "/week/refresh",
			method:             "POST",
			token:              "guess",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "RefreshValidToken",
			path:               "/week/refresh",
			method:             "POST",
			token:              "api-secret",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Preflight",
			path:               "/week/refresh",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.token != "" {
				req.Header.Add(middleware.TokenHeader, tc.token)
			}

			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}

func TestAuthMiddlewareHandler_NoTokenConfigured(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddlewareHandler("")

	req := httptest.NewRequest("POST", "/week/refresh", nil)
	rr := httptest.NewRecorder()
	authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
