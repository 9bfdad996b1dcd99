package weekstats

import (
	"math"
	"time"
)

const dateLabelLayout = "2006-01-02"

// AggregateDiagnostics describes what was recovered from while aggregating.
// None of it is fatal; callers decide whether to log it.
type AggregateDiagnostics struct {
	ReceivedBuckets int
	Truncated       bool
	MissingSamples  int
	EmptyWeightSets int
	IgnoredDataSets int
}

type Aggregator struct {
	units    Units
	location *time.Location
}

func NewAggregator(units Units, location *time.Location) *Aggregator {
	if location == nil {
		location = time.Local
	}
	return &Aggregator{
		units:    units,
		location: location,
	}
}

// Aggregate turns raw daily buckets into per-day step totals and weight averages,
// in the same order as received. Only the first DaysInWeek buckets are used.
func (a *Aggregator) Aggregate(buckets []Bucket) ([]DailyAggregate, AggregateDiagnostics) {
	diag := AggregateDiagnostics{ReceivedBuckets: len(buckets)}
	if len(buckets) > DaysInWeek {
		buckets = buckets[:DaysInWeek]
		diag.Truncated = true
	}

	days := make([]DailyAggregate, 0, len(buckets))
	for _, bucket := range buckets {
		date := bucket.StartTime().In(a.location)
		day := DailyAggregate{
			Date:      date,
			DateLabel: date.Format(dateLabelLayout),
		}

		for _, ds := range bucket.DataSets {
			switch Classify(ds.DataSourceID) {
			case KindSteps:
				day.StepTotal += sumSteps(ds, &diag)
			case KindWeight:
				if len(ds.Points) == 0 {
					diag.EmptyWeightSets++
					continue
				}
				// first weight set with readings wins
				if day.WeightAverage == nil {
					w := a.averageWeight(ds, &diag)
					day.WeightAverage = &w
				}
			default:
				diag.IgnoredDataSets++
			}
		}

		days = append(days, day)
	}

	return days, diag
}

func sumSteps(ds DataSet, diag *AggregateDiagnostics) float64 {
	var total float64
	for _, point := range ds.Points {
		var pointSum float64
		for _, s := range point.Values {
			v, ok := s.Value()
			if !ok {
				diag.MissingSamples++
			}
			pointSum += v
		}
		total += pointSum
	}
	return total
}

// averageWeight expects at least one point in ds.
func (a *Aggregator) averageWeight(ds DataSet, diag *AggregateDiagnostics) float64 {
	var total float64
	for _, point := range ds.Points {
		if len(point.Values) == 0 {
			continue
		}
		var pointSum float64
		for _, s := range point.Values {
			v, ok := s.Value()
			if !ok {
				diag.MissingSamples++
			}
			pointSum += v
		}
		total += pointSum / float64(len(point.Values))
	}

	avg := total / float64(len(ds.Points))
	if a.units == UnitsImperial {
		avg *= kilosToPounds
	}

	return math.Round(avg)
}
