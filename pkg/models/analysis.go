package models

type ExtremumKind string

const (
	KindMax ExtremumKind = "MAX"
	KindMin ExtremumKind = "MIN"
)

// Extremum is the sample selected as the series maximum or minimum
type Extremum struct {
	Sample Sample       `json:"sample"`
	Kind   ExtremumKind `json:"kind"`
}

type Classification string

const (
	ClassAboveBoth              Classification = "ABOVE_BOTH"
	ClassWithinBoth             Classification = "WITHIN_BOTH"
	ClassCrossesWarningOnly     Classification = "CROSSES_WARNING_ONLY"
	ClassBetweenErrorAndWarning Classification = "BETWEEN_ERROR_AND_WARNING"
)

// ThresholdPair holds the upper warning and error limits in Mbit/s
type ThresholdPair struct {
	WarningMbps float64 `json:"warning_mbps"`
	ErrorMbps   float64 `json:"error_mbps"`
}

// Limits holds whichever upper limits the monitoring server returned for an
// object. A nil field means the limit is not configured or could not be read.
type Limits struct {
	Warning *float64 `json:"warning_mbps,omitempty"`
	Error   *float64 `json:"error_mbps,omitempty"`
}

// Pair returns the limits as a ThresholdPair when both are present.
func (l Limits) Pair() (ThresholdPair, bool) {
	if l.Warning == nil || l.Error == nil {
		return ThresholdPair{}, false
	}
	return ThresholdPair{WarningMbps: *l.Warning, ErrorMbps: *l.Error}, true
}

// BytesPerSecondToMbps converts a byte rate to megabits per second.
func BytesPerSecondToMbps(v float64) float64 {
	return v * 8 / 1_000_000
}

// Verdict is the classification of an object's peak speed against its limits
type Verdict struct {
	Class  Classification `json:"class"`
	Limits ThresholdPair  `json:"limits"`
}
