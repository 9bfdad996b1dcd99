package weekstats

import (
	"strings"
)

type DataSetKind int

const (
	KindOther DataSetKind = iota
	KindSteps
	KindWeight
)

func (k DataSetKind) String() string {
	switch k {
	case KindSteps:
		return "steps"
	case KindWeight:
		return "weight"
	default:
		return "other"
	}
}

// Classify infers the kind of a data set from its source identifier, e.g.
// "derived:com.google.step_count.delta:com.google.android.gms:aggregated".
// Weight is checked first, so an identifier mentioning both is a weight set.
func Classify(dataSourceID string) DataSetKind {
	switch {
	case strings.Contains(dataSourceID, "weight"):
		return KindWeight
	case strings.Contains(dataSourceID, "step_count"):
		return KindSteps
	default:
		return KindOther
	}
}
