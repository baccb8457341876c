package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

var (
	ErrCollectionFailed = errors.New("data collection failed")
	ErrTimeout          = errors.New("collection timeout")
	ErrInvalidResponse  = errors.New("invalid response from monitoring server")
)

// Channel property names for the upper limits of a sensor channel.
const (
	PropertyLimitMaxWarning = "limitmaxwarning"
	PropertyLimitMaxError   = "limitmaxerror"
)

// StatusError is returned when the monitoring server answers with a
// non-success status. Body is kept verbatim for the report notice.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d - %s", e.Code, e.Body)
}

// SeriesQuery selects the window and averaging interval of a historic-data request
type SeriesQuery struct {
	Average   string `json:"avg"`
	StartDate string `json:"sdate"`
	EndDate   string `json:"edate"`
}

// Collector defines the interface to the monitoring server
type Collector interface {
	// Thresholds fetches the upper warning and error limits of an object.
	// A limit that cannot be read is left nil; this never fails.
	Thresholds(ctx context.Context, objectID models.ObjectID) models.Limits

	// Series fetches the historic-data table of an object
	Series(ctx context.Context, objectID models.ObjectID, q SeriesQuery) (*models.Table, error)

	// HealthCheck verifies the collector can reach the monitoring server
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the collector
	Close() error
}
