package models

// ObjectID names one monitored object (a sensor id on the monitoring server)
type ObjectID string

// Sample is one row of a cleaned historic-data series
type Sample struct {
	Timestamp    string  `json:"timestamp"`
	DisplaySpeed string  `json:"display_speed"`
	RawSpeed     float64 `json:"raw_speed"`
}

// Series is the ordered set of samples for one object. Every member has a
// parseable raw speed.
type Series []Sample

// Table is a parsed delimited-text payload with trimmed header labels
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of the first column with the given label, or -1.
func (t *Table) Index(label string) int {
	for i, c := range t.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// Field returns the cell at column i of row, or "" for short rows.
func (t *Table) Field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
