// Package report renders object results into the fixed-layout text report.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

const (
	LabelWidth     = 25
	DelimiterWidth = 55
)

const (
	LabelMaxSpeed    = "MAX SPEED"
	LabelMaxSpeedRaw = "MAX SPEED(RAW)"
	LabelMinSpeed    = "MIN SPEED"
	LabelMinSpeedRaw = "MIN SPEED(RAW)"
	LabelDateTime    = "Date Time"
)

// Render concatenates one block per result, in the order given.
func Render(results []models.ObjectResult) string {
	var b strings.Builder
	for i := range results {
		b.WriteString(Block(&results[i]))
	}
	return b.String()
}

// Block renders a single object, including its trailing delimiter.
func Block(res *models.ObjectResult) string {
	var b strings.Builder
	b.WriteString(Header(res.ObjectID))

	if res.Max != nil {
		writeExtremum(&b, res.Max, LabelMaxSpeed, LabelMaxSpeedRaw)
	}
	if res.Verdict != nil {
		b.WriteString(Sentence(res.ObjectID, *res.Verdict))
		b.WriteString("\n\n")
	}

	switch res.Outcome {
	case models.OutcomeOK:
		if res.Min != nil {
			writeExtremum(&b, res.Min, LabelMinSpeed, LabelMinSpeedRaw)
		}
	default:
		b.WriteString(Notice(res))
		b.WriteString("\n\n")
	}

	b.WriteString(Delimiter())
	return b.String()
}

func writeExtremum(b *strings.Builder, e *models.Extremum, speedLabel, rawLabel string) {
	b.WriteString(Line(speedLabel, e.Sample.DisplaySpeed))
	b.WriteString(Line(rawLabel, FormatFloat(e.Sample.RawSpeed)))
	b.WriteString(Line(LabelDateTime, e.Sample.Timestamp))
	b.WriteString("\n")
}

// Header is "ID <id>:" underlined with dashes of the same length.
func Header(id models.ObjectID) string {
	title := "ID " + string(id) + ":"
	return title + "\n" + strings.Repeat("-", utf8.RuneCountInString(title)) + "\n"
}

// Line left-aligns label in a LabelWidth column. Longer labels get no padding.
func Line(label, value string) string {
	pad := LabelWidth - utf8.RuneCountInString(label)
	if pad < 0 {
		pad = 0
	}
	return label + strings.Repeat(" ", pad) + value + "\n"
}

func Delimiter() string {
	return strings.Repeat("#", DelimiterWidth) + "\n\n"
}

// Sentence describes the verdict for the object's peak speed.
func Sentence(id models.ObjectID, v models.Verdict) string {
	errLimit := FormatFloat(v.Limits.ErrorMbps)
	warnLimit := FormatFloat(v.Limits.WarningMbps)

	switch v.Class {
	case models.ClassBetweenErrorAndWarning:
		return fmt.Sprintf("MAX SPEED for ID %s is within Upper Error Limit(%s Mbit/s) and Upper Warning Limit(%s Mbit/s)", id, errLimit, warnLimit)
	case models.ClassCrossesWarningOnly:
		return fmt.Sprintf("MAX SPEED for ID %s crosses Upper Warning Limit(%s Mbit/s) but is within Upper Error Limit(%s Mbit/s)", id, warnLimit, errLimit)
	case models.ClassWithinBoth:
		return fmt.Sprintf("MAX SPEED for ID %s is within both Upper Error Limit(%s Mbit/s) and Upper Warning Limit(%s Mbit/s)", id, errLimit, warnLimit)
	default:
		return fmt.Sprintf("MAX SPEED for ID %s is above both Upper Error Limit(%s Mbit/s) and Upper Warning Limit(%s Mbit/s)", id, errLimit, warnLimit)
	}
}

// Notice is the single line shown for an object without a MIN section.
func Notice(res *models.ObjectResult) string {
	switch res.Outcome {
	case models.OutcomeEmpty:
		return fmt.Sprintf("No non-NaN values found in 'Traffic Total (Speed)(RAW)' for ID %s", res.ObjectID)
	case models.OutcomeTransportFailure:
		return fmt.Sprintf("Error fetching historic data for ID %s: %s", res.ObjectID, res.Detail)
	default:
		return fmt.Sprintf("Error processing CSV data for ID %s: %s", res.ObjectID, res.Detail)
	}
}

// FormatFloat prints v the way the report has always shown raw speeds and
// limits: shortest round-trip digits, at least one decimal place, and
// exponent notation below 1e-4 or from 1e16 up.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
