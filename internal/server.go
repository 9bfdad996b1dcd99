package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitweek/internal/config"
	"github.com/2beens/fitweek/internal/googlefit"
	"github.com/2beens/fitweek/internal/handler"
	"github.com/2beens/fitweek/internal/middleware"
	"github.com/2beens/fitweek/internal/telemetry/metrics"
	"github.com/2beens/fitweek/internal/telemetry/tracing"
	"github.com/2beens/fitweek/internal/tracker"
	"github.com/2beens/fitweek/internal/view"
	"github.com/2beens/fitweek/internal/weekstats"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	apiToken          string // guards the manual refresh

	config        *config.Config
	redisClient   *redis.Client
	states        *view.Store
	fitApi        *googlefit.Api
	authenticator *googlefit.DeviceAuthenticator
	tracker       *tracker.Tracker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	GoogleClientID          string
	GoogleClientSecret      string
	RedisPassword           string
	ApiToken                string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	pipeline, err := NewPipeline(cfg)
	if err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitweek", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	rdb.AddHook(redisotel.NewTracingHook())

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitweek")
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Minute,
	}

	states := view.NewStore()
	authenticator := googlefit.NewDeviceAuthenticator(
		params.GoogleClientID,
		params.GoogleClientSecret,
		googlefit.NewTokenStore(rdb),
		states,
		tracedHttpClient,
	)
	fitApi := googlefit.NewApi(authenticator, googlefit.ApiOptions{
		Endpoint:      cfg.GoogleFitEndpoint,
		CacheTTL:      time.Duration(cfg.FetchCacheTTLSeconds) * time.Second,
		Location:      location,
		StartOnMonday: cfg.StartOnMonday,
	})
	weekTracker := tracker.NewTracker(
		fitApi,
		pipeline,
		states,
		metricsManager,
		cfg.UpdateInterval(),
		cfg.Debug,
	)
	authenticator.OnAuthenticated(func(ctx context.Context) {
		fitApi.ClearCache()
		if _, err := weekTracker.Refresh(ctx); err != nil {
			log.Errorf("refresh after authentication: %s", err)
		}
	})

	return &Server{
		config:        cfg,
		versionInfo:   params.VersionInfo,
		apiToken:      params.ApiToken,
		redisClient:   rdb,
		states:        states,
		fitApi:        fitApi,
		authenticator: authenticator,
		tracker:       weekTracker,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// NewPipeline builds the weekly summary pipeline from the config.
func NewPipeline(cfg *config.Config) (*weekstats.Pipeline, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	encoder, err := weekstats.NewBandEncoder(cfg.StepGoal, cfg.Palette())
	if err != nil {
		return nil, err
	}

	return weekstats.NewPipeline(
		weekstats.NewAggregator(weekstats.Units(cfg.Units), location),
		weekstats.NewAssembler(
			encoder,
			weekstats.AlignDayLabels(weekstats.WeekdayLabels, cfg.StartOnMonday),
			cfg.RenderOptions(),
		),
	), nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	weekHandler := handler.NewHandler(s.tracker, s.states, s.versionInfo)
	weekHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.RefreshRateLimitPerMin)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.apiToken)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.tracker.Start(ctx)

	// the device flow blocks until the user enters the code, so it gets its own goroutine
	go s.authenticator.Supervise(ctx, s.config.UpdateInterval())

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.tracker.Stop()
	log.Trace("tracker stopped ...")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	var shutdownErr error
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("close redis client: %w", err))
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("shutdown http server: %w", err))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("shutdown metrics http server: %w", err))
		}
		log.Warnln("metrics server shut down")
	}

	return shutdownErr
}
