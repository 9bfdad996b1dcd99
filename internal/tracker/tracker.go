package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitweek/internal/googlefit"
	"github.com/2beens/fitweek/internal/telemetry/metrics"
	"github.com/2beens/fitweek/internal/telemetry/tracing"
	"github.com/2beens/fitweek/internal/view"
	"github.com/2beens/fitweek/internal/weekstats"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tracker_test

type weekFetcher interface {
	FetchWeek(ctx context.Context) (weekstats.Snapshot, error)
}

// Tracker refreshes the weekly summary on a fixed interval and publishes
// the result to the view store.
type Tracker struct {
	fetcher        weekFetcher
	pipeline       *weekstats.Pipeline
	states         *view.Store
	metricsManager *metrics.Manager
	interval       time.Duration
	debug          bool
	now            func() time.Time

	// one refresh at a time, the ticker and manual refreshes may overlap
	refreshMutex sync.Mutex

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(
	fetcher weekFetcher,
	pipeline *weekstats.Pipeline,
	states *view.Store,
	metricsManager *metrics.Manager,
	interval time.Duration,
	debug bool,
) *Tracker {
	return &Tracker{
		fetcher:        fetcher,
		pipeline:       pipeline,
		states:         states,
		metricsManager: metricsManager,
		interval:       interval,
		debug:          debug,
		now:            time.Now,
	}
}

// Start refreshes right away and then on every interval tick, until Stop is called
// or ctx is done.
func (t *Tracker) Start(ctx context.Context) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.cancel != nil {
		log.Debugln("tracker already running")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.loop(ctx, t.done)
	log.Infof("tracker started, refresh interval: %s", t.interval)
}

func (t *Tracker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.refreshInLoop(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Debugln("tracker loop stopped")
			return
		case <-ticker.C:
			t.refreshInLoop(ctx)
		}
	}
}

func (t *Tracker) refreshInLoop(ctx context.Context) {
	if _, err := t.Refresh(ctx); err != nil {
		if errors.Is(err, googlefit.ErrNoToken) {
			log.Debugln("tracker: not authenticated yet, skipping refresh")
			return
		}
		log.Errorf("tracker: refresh: %s", err)
	}
}

func (t *Tracker) Stop() {
	t.mutex.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mutex.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Infoln("tracker stopped")
}

func (t *Tracker) IsRunning() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.cancel != nil
}

func (t *Tracker) Status() string {
	if t.IsRunning() {
		return StatusRunning
	}
	return StatusStopped
}

// Refresh fetches the current week, runs the pipeline and publishes the Ready state.
// Without a token the view state is left untouched.
func (t *Tracker) Refresh(ctx context.Context) (_ view.State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.refresh")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t.refreshMutex.Lock()
	defer t.refreshMutex.Unlock()

	started := time.Now()
	defer func() {
		t.metricsManager.HistRefreshDuration.Observe(time.Since(started).Seconds())
	}()

	snapshot, err := t.fetcher.FetchWeek(ctx)
	if err != nil {
		if errors.Is(err, googlefit.ErrNoToken) {
			t.metricsManager.CounterRefreshes.WithLabelValues("unauthenticated").Inc()
			return t.states.Current(), err
		}
		t.metricsManager.CounterRefreshes.WithLabelValues("error").Inc()
		t.states.Set(view.ErrorFromKind("STATS_ERROR"))
		return t.states.Current(), fmt.Errorf("fetch week: %w", err)
	}

	week, days, diag := t.pipeline.Build(snapshot)
	t.report(snapshot, days, diag)
	span.SetAttributes(
		attribute.String("snapshot.id", snapshot.ID),
		attribute.Int("week.days", len(days)),
	)

	ready := view.Ready{
		Week:        week,
		SnapshotID:  snapshot.ID,
		RefreshedAt: t.now(),
	}
	t.states.Set(ready)
	t.metricsManager.CounterRefreshes.WithLabelValues("ok").Inc()

	return ready, nil
}

func (t *Tracker) report(snapshot weekstats.Snapshot, days []weekstats.DailyAggregate, diag weekstats.AggregateDiagnostics) {
	if diag.Truncated {
		log.Warnf("snapshot %s: got %d daily buckets, only the first %d are used",
			snapshot.ID, diag.ReceivedBuckets, weekstats.DaysInWeek)
		t.metricsManager.CounterTruncatedWeeks.Inc()
	}
	if diag.MissingSamples > 0 {
		log.Warnf("snapshot %s: %d samples without a value", snapshot.ID, diag.MissingSamples)
		t.metricsManager.CounterMissingSamples.Add(float64(diag.MissingSamples))
	}
	if diag.EmptyWeightSets > 0 {
		log.Debugf("snapshot %s: %d weight datasets without points", snapshot.ID, diag.EmptyWeightSets)
	}

	var weekSteps float64
	for _, day := range days {
		weekSteps += day.StepTotal
	}
	t.metricsManager.GaugeWeekSteps.Set(weekSteps)

	if !t.debug {
		return
	}
	for _, day := range days {
		weight := "-"
		if day.HasWeight() {
			weight = fmt.Sprintf("%.0f", *day.WeightAverage)
		}
		log.Debugf("%s: steps %.0f, weight %s", day.DateLabel, day.StepTotal, weight)
	}
}
