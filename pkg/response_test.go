package pkg

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteResponse(rr, "application/json", `{"ok":true}`)

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, rr.Body.String())
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWriteTextResponseOK(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteTextResponseOK(rr, "fine")

	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "fine", rr.Body.String())
}

func TestSendJsonResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	SendJsonResponse(rr, http.StatusAccepted, map[string]string{"status": "running"})

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"running"}`, rr.Body.String())
}

func TestSendJsonResponse_MarshalError(t *testing.T) {
	rr := httptest.NewRecorder()
	SendJsonResponse(rr, http.StatusOK, math.Inf(1))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
