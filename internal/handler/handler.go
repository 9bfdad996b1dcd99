package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/fitweek/internal/googlefit"
	"github.com/2beens/fitweek/internal/middleware"
	"github.com/2beens/fitweek/internal/telemetry/metrics"
	"github.com/2beens/fitweek/internal/telemetry/tracing"
	"github.com/2beens/fitweek/internal/view"
	"github.com/2beens/fitweek/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=handler_test

type weekTracker interface {
	Refresh(ctx context.Context) (view.State, error)
	Status() string
}

type stateReader interface {
	Current() view.State
}

type Handler struct {
	tracker     weekTracker
	states      stateReader
	versionInfo string
}

func NewHandler(tracker weekTracker, states stateReader, versionInfo string) *Handler {
	return &Handler{
		tracker:     tracker,
		states:      states,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	refreshPerMin int,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleVersion).Methods("GET").Name("version")
	mainRouter.HandleFunc("/week", handler.handleGetWeek).Methods("GET", "OPTIONS").Name("week")
	mainRouter.HandleFunc("/tracker/status", handler.handleTrackerStatus).Methods("GET").Name("tracker-status")

	refreshRouter := mainRouter.PathPrefix("/week/refresh").Subrouter()
	refreshRouter.HandleFunc("", handler.handleRefresh).Methods("POST", "OPTIONS").Name("week-refresh")
	// every refresh can end up calling the fitness api
	refreshRouter.Use(middleware.RateLimit(rateLimiter, metricsManager, "week-refresh", refreshPerMin))
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "weekHandler.get")
	defer span.End()

	state := handler.states.Current()
	span.SetAttributes(attribute.String("state", state.Name()))

	pkg.SendJsonResponse(w, http.StatusOK, view.NewResponse(state))
}

func (handler *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "weekHandler.refresh")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, err := handler.tracker.Refresh(ctx)
	switch {
	case err == nil:
		pkg.SendJsonResponse(w, http.StatusOK, view.NewResponse(state))
	case errors.Is(err, googlefit.ErrNoToken):
		pkg.SendJsonResponse(w, http.StatusConflict, view.NewResponse(state))
	default:
		log.Errorf("manual refresh: %s", err)
		pkg.SendJsonResponse(w, http.StatusBadGateway, view.NewResponse(state))
	}
}

func (handler *Handler) handleTrackerStatus(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.tracker.Status())
}
