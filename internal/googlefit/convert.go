package googlefit

import (
	"github.com/2beens/fitweek/internal/weekstats"

	"google.golang.org/api/fitness/v1"
)

// ConvertBuckets maps the aggregate API buckets to core buckets, keeping the order.
// The generated client drops field presence: a value with neither intVal nor fpVal
// set decodes to zeros, so only a nil value is treated as a missing sample.
func ConvertBuckets(apiBuckets []*fitness.AggregateBucket) []weekstats.Bucket {
	buckets := make([]weekstats.Bucket, 0, len(apiBuckets))
	for _, ab := range apiBuckets {
		if ab == nil {
			continue
		}
		bucket := weekstats.Bucket{
			StartTimeMillis: ab.StartTimeMillis,
			DataSets:        make([]weekstats.DataSet, 0, len(ab.Dataset)),
		}
		for _, ads := range ab.Dataset {
			if ads == nil {
				continue
			}
			bucket.DataSets = append(bucket.DataSets, convertDataSet(ads))
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

func convertDataSet(ads *fitness.Dataset) weekstats.DataSet {
	ds := weekstats.DataSet{
		DataSourceID: ads.DataSourceId,
		Points:       make([]weekstats.DataPoint, 0, len(ads.Point)),
	}
	for _, ap := range ads.Point {
		if ap == nil {
			ds.Points = append(ds.Points, weekstats.DataPoint{})
			continue
		}
		point := weekstats.DataPoint{
			Values: make([]weekstats.Sample, 0, len(ap.Value)),
		}
		for _, v := range ap.Value {
			point.Values = append(point.Values, convertValue(v))
		}
		ds.Points = append(ds.Points, point)
	}
	return ds
}

func convertValue(v *fitness.Value) weekstats.Sample {
	switch {
	case v == nil:
		return weekstats.Sample{}
	case v.IntVal != 0:
		return weekstats.IntSample(v.IntVal)
	case v.FpVal != 0:
		return weekstats.FpSample(v.FpVal)
	default:
		return weekstats.IntSample(0)
	}
}
