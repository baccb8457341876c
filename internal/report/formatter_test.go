package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

func row(label, value string) string {
	return fmt.Sprintf("%-25s%s\n", label, value)
}

var delimiter = strings.Repeat("#", 55) + "\n\n"

func okResult(id models.ObjectID) models.ObjectResult {
	return models.ObjectResult{
		ObjectID: id,
		Outcome:  models.OutcomeOK,
		Max: &models.Extremum{
			Kind:   models.KindMax,
			Sample: models.Sample{Timestamp: "t2", DisplaySpeed: "50 Mbit/s", RawSpeed: 50},
		},
		Min: &models.Extremum{
			Kind:   models.KindMin,
			Sample: models.Sample{Timestamp: "t1", DisplaySpeed: "10 Mbit/s", RawSpeed: 10},
		},
	}
}

func TestBlock_FullLayout(t *testing.T) {
	res := okResult("2041")
	res.Verdict = &models.Verdict{
		Class:  models.ClassAboveBoth,
		Limits: models.ThresholdPair{WarningMbps: 45, ErrorMbps: 40},
	}

	want := "ID 2041:\n--------\n" +
		row("MAX SPEED", "50 Mbit/s") +
		row("MAX SPEED(RAW)", "50.0") +
		row("Date Time", "t2") +
		"\n" +
		"MAX SPEED for ID 2041 is above both Upper Error Limit(40.0 Mbit/s) and Upper Warning Limit(45.0 Mbit/s)\n\n" +
		row("MIN SPEED", "10 Mbit/s") +
		row("MIN SPEED(RAW)", "10.0") +
		row("Date Time", "t1") +
		"\n" +
		delimiter

	assert.Equal(t, want, Block(&res))
}

func TestBlock_MaxDisabled(t *testing.T) {
	res := okResult("7")
	res.Max = nil

	want := "ID 7:\n-----\n" +
		row("MIN SPEED", "10 Mbit/s") +
		row("MIN SPEED(RAW)", "10.0") +
		row("Date Time", "t1") +
		"\n" +
		delimiter

	assert.Equal(t, want, Block(&res))
}

func TestBlock_Notices(t *testing.T) {
	tests := []struct {
		name   string
		result models.ObjectResult
		notice string
	}{
		{
			name:   "empty series",
			result: models.ObjectResult{ObjectID: "1", Outcome: models.OutcomeEmpty},
			notice: "No non-NaN values found in 'Traffic Total (Speed)(RAW)' for ID 1",
		},
		{
			name:   "transport failure",
			result: models.ObjectResult{ObjectID: "2", Outcome: models.OutcomeTransportFailure, Detail: "400 - Sensor not found"},
			notice: "Error fetching historic data for ID 2: 400 - Sensor not found",
		},
		{
			name:   "parse failure",
			result: models.ObjectResult{ObjectID: "3", Outcome: models.OutcomeParseFailure, Detail: "missing required columns: Date Time"},
			notice: "Error processing CSV data for ID 3: missing required columns: Date Time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Block(&tt.result)
			want := Header(tt.result.ObjectID) + tt.notice + "\n\n" + delimiter
			assert.Equal(t, want, got)
		})
	}
}

func TestBlock_ParseFailureAfterMax(t *testing.T) {
	res := okResult("9")
	res.Outcome = models.OutcomeParseFailure
	res.Min = nil
	res.Detail = `could not convert string to float: "n/a"`

	got := Block(&res)

	assert.Contains(t, got, row("MAX SPEED", "50 Mbit/s"))
	assert.NotContains(t, got, "MIN SPEED")
	assert.True(t, strings.HasSuffix(got, "Error processing CSV data for ID 9: could not convert string to float: \"n/a\"\n\n"+delimiter))
}

func TestRender_PreservesOrder(t *testing.T) {
	ids := []models.ObjectID{"30", "10", "20"}
	results := make([]models.ObjectResult, len(ids))
	for i, id := range ids {
		results[i] = okResult(id)
	}
	results[1] = models.ObjectResult{ObjectID: "10", Outcome: models.OutcomeTransportFailure, Detail: "500 - boom"}

	out := Render(results)

	blocks := strings.Split(out, delimiter)
	assert.Len(t, blocks, len(ids)+1)
	assert.Equal(t, "", blocks[len(ids)])
	for i, id := range ids {
		assert.True(t, strings.HasPrefix(blocks[i], "ID "+string(id)+":\n"), "block %d", i)
	}
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}

func TestLine_ClampsLongLabels(t *testing.T) {
	long := strings.Repeat("L", 30)
	assert.Equal(t, long+"v\n", Line(long, "v"))
	assert.Equal(t, strings.Repeat("x", 25)+"v\n", Line(strings.Repeat("x", 25), "v"))
	assert.Equal(t, "a"+strings.Repeat(" ", 24)+"v\n", Line("a", "v"))
}

func TestHeader_UnderlineMatchesTitle(t *testing.T) {
	assert.Equal(t, "ID 12345:\n---------\n", Header("12345"))
}

func TestSentence(t *testing.T) {
	limits := models.ThresholdPair{WarningMbps: 55, ErrorMbps: 50}

	tests := []struct {
		class models.Classification
		want  string
	}{
		{
			class: models.ClassBetweenErrorAndWarning,
			want:  "MAX SPEED for ID 1 is within Upper Error Limit(50.0 Mbit/s) and Upper Warning Limit(55.0 Mbit/s)",
		},
		{
			class: models.ClassCrossesWarningOnly,
			want:  "MAX SPEED for ID 1 crosses Upper Warning Limit(55.0 Mbit/s) but is within Upper Error Limit(50.0 Mbit/s)",
		},
		{
			class: models.ClassWithinBoth,
			want:  "MAX SPEED for ID 1 is within both Upper Error Limit(50.0 Mbit/s) and Upper Warning Limit(55.0 Mbit/s)",
		},
		{
			class: models.ClassAboveBoth,
			want:  "MAX SPEED for ID 1 is above both Upper Error Limit(50.0 Mbit/s) and Upper Warning Limit(55.0 Mbit/s)",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			assert.Equal(t, tt.want, Sentence("1", models.Verdict{Class: tt.class, Limits: limits}))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 50, want: "50.0"},
		{in: 12.5, want: "12.5"},
		{in: 0, want: "0.0"},
		{in: -3, want: "-3.0"},
		{in: 0.8, want: "0.8"},
		{in: 1234567.891, want: "1234567.891"},
		{in: 1e16, want: "1e+16"},
		{in: 0.00001, want: "1e-05"},
		{in: 0.0001, want: "0.0001"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in))
		})
	}
}
