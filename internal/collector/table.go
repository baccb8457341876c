package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

var errNoColumns = errors.New("no columns to parse from payload")

// ParseTable reads a header row and its records from a CSV payload. Header
// labels are trimmed. Rows longer than the header are rejected; shorter rows
// are kept and their missing cells read as empty.
func ParseTable(r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errNoColumns
	}
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(header))
	for i, label := range header {
		if i == 0 {
			label = strings.TrimPrefix(label, "\ufeff")
		}
		columns[i] = strings.TrimSpace(label)
	}

	table := &models.Table{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(columns) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(columns), len(record))
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
