package googlefit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitweek/internal/telemetry/tracing"
	"github.com/2beens/fitweek/internal/weekstats"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/fitness/v1"
	"google.golang.org/api/option"
)

// https://developers.google.com/fit/rest/v1/reference/users/dataset/aggregate

const (
	stepsDataType  = "com.google.step_count.delta"
	weightDataType = "com.google.weight"

	oneDayMillis = int64(24 * time.Hour / time.Millisecond)
)

// ClientSource hands out an authorized http client for the Fitness API.
type ClientSource interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
}

type ApiOptions struct {
	// Endpoint overrides the default fitness base path, e.g. for tests.
	Endpoint      string
	CacheTTL      time.Duration
	Location      *time.Location
	StartOnMonday bool
}

type Api struct {
	clientSource  ClientSource
	endpoint      string
	cache         *freecache.Cache
	cacheTTL      time.Duration
	location      *time.Location
	startOnMonday bool
	now           func() time.Time
}

func NewApi(clientSource ClientSource, opts ApiOptions) *Api {
	megabyte := 1024 * 1024
	cacheSize := 5 * megabyte

	location := opts.Location
	if location == nil {
		location = time.Local
	}

	return &Api{
		clientSource:  clientSource,
		endpoint:      opts.Endpoint,
		cache:         freecache.NewCache(cacheSize),
		cacheTTL:      opts.CacheTTL,
		location:      location,
		startOnMonday: opts.StartOnMonday,
		now:           time.Now,
	}
}

// WithClock replaces the clock the week window is computed from.
func (a *Api) WithClock(now func() time.Time) *Api {
	a.now = now
	return a
}

// FetchWeek returns the daily buckets of the current week. Responses are cached
// per week window for the configured TTL, so manual refreshes in a burst do not
// hit the API every time.
func (a *Api) FetchWeek(ctx context.Context) (snapshot weekstats.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "googlefit.api.fetchWeek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start, end := weekstats.WeekWindow(a.now().In(a.location), a.startOnMonday)
	span.SetAttributes(
		attribute.Int64("week.start", start.UnixMilli()),
		attribute.Int64("week.end", end.UnixMilli()),
	)

	cacheKey := fmt.Sprintf("aggregate::%d", start.UnixMilli())
	if cachedBytes, err := a.cache.Get([]byte(cacheKey)); err == nil {
		var cached weekstats.Snapshot
		if err := json.Unmarshal(cachedBytes, &cached); err == nil {
			log.Tracef("found week %s in cache", start.Format(time.DateOnly))
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		} else {
			log.Errorf("failed to unmarshal cached week %s: %s", start.Format(time.DateOnly), err)
		}
	}

	httpClient, err := a.clientSource.HTTPClient(ctx)
	if err != nil {
		return weekstats.Snapshot{}, err
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if a.endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.endpoint))
	}
	service, err := fitness.NewService(ctx, opts...)
	if err != nil {
		return weekstats.Snapshot{}, fmt.Errorf("create fitness service: %w", err)
	}

	resp, err := service.Users.Dataset.Aggregate("me", &fitness.AggregateRequest{
		AggregateBy: []*fitness.AggregateBy{
			{DataTypeName: stepsDataType},
			{DataTypeName: weightDataType},
		},
		BucketByTime:    &fitness.BucketByTime{DurationMillis: oneDayMillis},
		StartTimeMillis: start.UnixMilli(),
		EndTimeMillis:   end.UnixMilli(),
	}).Context(ctx).Do()
	if err != nil {
		return weekstats.Snapshot{}, fmt.Errorf("aggregate request: %w", err)
	}

	snapshot = weekstats.Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: a.now(),
		Buckets:   ConvertBuckets(resp.Bucket),
	}
	span.SetAttributes(
		attribute.String("snapshot.id", snapshot.ID),
		attribute.Int("snapshot.buckets", len(snapshot.Buckets)),
	)

	if a.cacheTTL > 0 {
		snapshotBytes, err := json.Marshal(snapshot)
		if err != nil {
			log.Errorf("failed to marshal week snapshot for cache: %s", err)
		} else if err := a.cache.Set([]byte(cacheKey), snapshotBytes, int(a.cacheTTL.Seconds())); err != nil {
			log.Errorf("failed to cache week snapshot: %s", err)
		}
	}

	return snapshot, nil
}

// ClearCache drops all cached weeks, e.g. after the user re-authenticates.
func (a *Api) ClearCache() {
	a.cache.Clear()
}
