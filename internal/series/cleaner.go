// Package series turns a historic-data table into a clean speed series.
package series

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

// Column labels of the historic-data export, after trimming
const (
	ColumnDateTime = "Date Time"
	ColumnSpeed    = "Traffic Total (Speed)"
	ColumnSpeedRaw = "Traffic Total (Speed)(RAW)"
)

var ErrMissingColumns = errors.New("missing required columns")

var requiredColumns = []string{ColumnDateTime, ColumnSpeed, ColumnSpeedRaw}

// Clean projects the three required columns and keeps only the rows whose
// raw speed is numeric, in table order. An empty result is not an error.
func Clean(table *models.Table) (models.Series, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(requiredColumns, ", "))
	}

	index := make([]int, len(requiredColumns))
	var missing []string
	for i, label := range requiredColumns {
		index[i] = table.Index(label)
		if index[i] < 0 {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	series := make(models.Series, 0, len(table.Rows))
	for _, row := range table.Rows {
		raw, ok := ParseRaw(table.Field(row, index[2]))
		if !ok {
			continue
		}
		series = append(series, models.Sample{
			Timestamp:    table.Field(row, index[0]),
			DisplaySpeed: table.Field(row, index[1]),
			RawSpeed:     raw,
		})
	}

	return series, nil
}

// Reclean drops any sample whose raw speed is not a number. On the output
// of Clean it returns an equal series.
func Reclean(s models.Series) models.Series {
	out := make(models.Series, 0, len(s))
	for _, sample := range s {
		if math.IsNaN(sample.RawSpeed) {
			continue
		}
		out = append(out, sample)
	}
	return out
}

// ParseRaw coerces a raw cell to a float. Empty, non-numeric and NaN cells
// are invalid, as are Go-only literals such as digit separators and hex
// floats.
func ParseRaw(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.Contains(cell, "_") {
		return 0, false
	}
	if digits := strings.ToLower(strings.TrimLeft(cell, "+-")); strings.HasPrefix(digits, "0x") {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
