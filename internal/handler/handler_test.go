package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/fitweek/internal/googlefit"
	"github.com/2beens/fitweek/internal/handler"
	"github.com/2beens/fitweek/internal/telemetry/metrics"
	"github.com/2beens/fitweek/internal/view"
	"github.com/2beens/fitweek/internal/weekstats"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testRequestRateLimiter struct {
	allowed int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	return &redis_rate.Result{Allowed: l.allowed, RetryAfter: time.Second}, nil
}

type testSetup struct {
	router         *mux.Router
	tracker        *MockweekTracker
	states         *MockstateReader
	metricsManager *metrics.Manager
}

func newTestSetup(t *testing.T, allowed int) testSetup {
	t.Helper()
	ctrl := gomock.NewController(t)
	s := testSetup{
		router:         mux.NewRouter(),
		tracker:        NewMockweekTracker(ctrl),
		states:         NewMockstateReader(ctrl),
		metricsManager: metrics.NewTestManager(),
	}
	h := handler.NewHandler(s.tracker, s.states, "v1.2.3")
	h.SetupRoutes(s.router, &testRequestRateLimiter{allowed: allowed}, s.metricsManager, 5)
	return s
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHandler_Root(t *testing.T) {
	s := newTestSetup(t, 1)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())

	rr = httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))
	assert.Equal(t, "v1.2.3", rr.Body.String())
}

func TestHandler_GetWeek(t *testing.T) {
	s := newTestSetup(t, 1)

	s.states.EXPECT().Current().Return(view.AwaitingUserCode{
		VerificationURL: "https://www.google.com/device",
		UserCode:        "ABC-DEF",
	})

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", "/week", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	resp := decodeResponse(t, rr)
	assert.Equal(t, "awaiting_user_code", resp["state"])
	assert.Equal(t, "ABC-DEF", resp["userCode"])
	assert.Equal(t, "Please Visit: https://www.google.com/device", resp["message"])
}

func TestHandler_GetWeek_Ready(t *testing.T) {
	s := newTestSetup(t, 1)

	s.states.EXPECT().Current().Return(view.Ready{
		SnapshotID:  "snapshot-1",
		RefreshedAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		Week: weekstats.Week{
			Labels: []string{"S", "M"},
			Days: []weekstats.DayRecord{
				{DayLabel: "S", DateLabel: "2026-10-18", Segments: []weekstats.Segment{{Color: "#EEEEEE", Fraction: 1}}},
				{DayLabel: "M", DateLabel: "2026-10-19", StepTotal: 5000, StepLabel: "5.0k"},
			},
		},
	})

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", "/week", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeResponse(t, rr)
	assert.Equal(t, "ready", resp["state"])
	assert.Equal(t, "snapshot-1", resp["snapshotId"])
	week := resp["week"].(map[string]any)
	assert.Equal(t, []any{"S", "M"}, week["labels"])
	assert.Len(t, week["days"], 2)
}

func TestHandler_Refresh(t *testing.T) {
	s := newTestSetup(t, 1)

	s.tracker.EXPECT().
		Refresh(gomock.Any()).
		Return(view.Ready{SnapshotID: "snapshot-2"}, nil)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("POST", "/week/refresh", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, "ready", resp["state"])
	assert.Equal(t, "snapshot-2", resp["snapshotId"])
}

func TestHandler_Refresh_Errors(t *testing.T) {
	s := newTestSetup(t, 1)

	s.tracker.EXPECT().
		Refresh(gomock.Any()).
		Return(view.Unauthenticated{}, googlefit.ErrNoToken)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("POST", "/week/refresh", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "unauthenticated", decodeResponse(t, rr)["state"])

	s.tracker.EXPECT().
		Refresh(gomock.Any()).
		Return(view.ErrorFromKind("STATS_ERROR"), errors.New("fetch week: boom"))

	rr = httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("POST", "/week/refresh", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, "errored", resp["state"])
	assert.Equal(t, "Stats Error", resp["message"])
}

func TestHandler_Refresh_RateLimited(t *testing.T) {
	s := newTestSetup(t, 0)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("POST", "/week/refresh", nil))
	assert.Equal(t, http.StatusTooEarly, rr.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterRateLimitedRequests))

	// reading the week is not limited
	s.states.EXPECT().Current().Return(view.Unauthenticated{})
	rr = httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", "/week", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_TrackerStatus(t *testing.T) {
	s := newTestSetup(t, 1)

	s.tracker.EXPECT().Status().Return("running")

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", "/tracker/status", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "running", rr.Body.String())
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	s := newTestSetup(t, 1)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", "/week/refresh", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
