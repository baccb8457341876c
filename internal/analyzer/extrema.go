package analyzer

import "github.com/OldStager01/traffic-extrema/pkg/models"

// Max returns the sample with the highest raw speed. Ties go to the earliest
// sample. ok is false for an empty series.
func Max(series models.Series) (models.Extremum, bool) {
	return selectExtremum(series, models.KindMax, func(candidate, best float64) bool {
		return candidate > best
	})
}

// Min returns the sample with the lowest raw speed. Ties go to the earliest
// sample. ok is false for an empty series.
func Min(series models.Series) (models.Extremum, bool) {
	return selectExtremum(series, models.KindMin, func(candidate, best float64) bool {
		return candidate < best
	})
}

func selectExtremum(series models.Series, kind models.ExtremumKind, better func(candidate, best float64) bool) (models.Extremum, bool) {
	if len(series) == 0 {
		return models.Extremum{}, false
	}

	best := 0
	for i := 1; i < len(series); i++ {
		if better(series[i].RawSpeed, series[best].RawSpeed) {
			best = i
		}
	}

	return models.Extremum{Sample: series[best], Kind: kind}, true
}
