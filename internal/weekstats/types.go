package weekstats

import (
	"math"
	"time"
)

const (
	// DaysInWeek is the number of daily buckets a well-formed week carries.
	DaysInWeek = 7

	kilosToPounds = 2.20462
)

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Sample is a single scalar reading. Google Fit stores either an integer
// or a floating value, at most one of them is meaningful.
type Sample struct {
	IntVal *int64   `json:"intVal,omitempty"`
	FpVal  *float64 `json:"fpVal,omitempty"`
}

// Value returns the numeric value of the sample, and false if the sample
// carries neither an integer nor a usable (finite) floating value.
// A present zero is a real reading and is reported as such.
func (s Sample) Value() (float64, bool) {
	switch {
	case s.IntVal != nil:
		return float64(*s.IntVal), true
	case s.FpVal != nil:
		if math.IsNaN(*s.FpVal) || math.IsInf(*s.FpVal, 0) {
			return 0, false
		}
		return *s.FpVal, true
	default:
		return 0, false
	}
}

func IntSample(v int64) Sample {
	return Sample{IntVal: &v}
}

func FpSample(v float64) Sample {
	return Sample{FpVal: &v}
}

// DataPoint is one recorded instant or short interval. Points merged from
// several sources carry more than one sample (e.g. weight summary avg/max/min).
type DataPoint struct {
	Values []Sample `json:"value"`
}

type DataSet struct {
	DataSourceID string      `json:"dataSourceId"`
	Points       []DataPoint `json:"point"`
}

type Bucket struct {
	StartTimeMillis int64     `json:"startTimeMillis,string"`
	DataSets        []DataSet `json:"dataset"`
}

func (b Bucket) StartTime() time.Time {
	return time.UnixMilli(b.StartTimeMillis)
}

// Snapshot is one raw weekly fetch result, replaced wholesale on every refresh.
type Snapshot struct {
	ID        string    `json:"id"`
	FetchedAt time.Time `json:"fetchedAt"`
	Buckets   []Bucket  `json:"bucket"`
}

type DailyAggregate struct {
	Date      time.Time
	DateLabel string
	StepTotal float64
	// WeightAverage is nil when the day has no weight readings at all,
	// which is not the same as a reading of zero.
	WeightAverage *float64
}

func (d DailyAggregate) HasWeight() bool {
	return d.WeightAverage != nil
}
