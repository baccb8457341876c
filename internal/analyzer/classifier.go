package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

// Classify places a peak speed against the upper error and warning limits.
// The rules are evaluated in order and the first match wins. The first rule
// matches a speed above the error limit but not above the warning limit, and
// its report sentence still says "within Upper Error Limit".
func Classify(speed, errorLimit, warningLimit float64) models.Classification {
	switch {
	case speed > errorLimit && speed <= warningLimit:
		return models.ClassBetweenErrorAndWarning
	case speed <= errorLimit && speed > warningLimit:
		return models.ClassCrossesWarningOnly
	case speed <= errorLimit && speed <= warningLimit:
		return models.ClassWithinBoth
	default:
		return models.ClassAboveBoth
	}
}

// PeakSpeed reads the leading numeric token of a formatted speed such as
// "52.3 Mbit/s". The unit is ignored.
func PeakSpeed(display string) (float64, error) {
	fields := strings.Fields(display)
	if len(fields) == 0 {
		return 0, fmt.Errorf("could not read a speed from %q", display)
	}

	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("could not convert string to float: %q", fields[0])
	}
	return v, nil
}

// Evaluate classifies the display speed of a peak sample against a pair of limits.
func Evaluate(peak models.Sample, limits models.ThresholdPair) (models.Verdict, error) {
	speed, err := PeakSpeed(peak.DisplaySpeed)
	if err != nil {
		return models.Verdict{}, err
	}
	return models.Verdict{
		Class:  Classify(speed, limits.ErrorMbps, limits.WarningMbps),
		Limits: limits,
	}, nil
}
