package collector

import (
	"context"
	"sync"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

// MockCollector serves canned tables and limits per object
type MockCollector struct {
	mu         sync.Mutex
	tables     map[models.ObjectID]*models.Table
	limits     map[models.ObjectID]models.Limits
	failures   map[models.ObjectID]error
	shouldFail bool
	calls      []string
}

func NewMockCollector() *MockCollector {
	return &MockCollector{
		tables:   make(map[models.ObjectID]*models.Table),
		limits:   make(map[models.ObjectID]models.Limits),
		failures: make(map[models.ObjectID]error),
	}
}

func (c *MockCollector) SetTable(objectID models.ObjectID, table *models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[objectID] = table
}

func (c *MockCollector) SetLimits(objectID models.ObjectID, limits models.Limits) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limits[objectID] = limits
}

// SetFailure makes Series fail for one object with the given error
func (c *MockCollector) SetFailure(objectID models.ObjectID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[objectID] = err
}

func (c *MockCollector) SetShouldFail(shouldFail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shouldFail = shouldFail
}

// Calls returns the requests seen so far as "kind:id" strings
func (c *MockCollector) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *MockCollector) Thresholds(ctx context.Context, objectID models.ObjectID) models.Limits {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "thresholds:"+string(objectID))
	return c.limits[objectID]
}

func (c *MockCollector) Series(ctx context.Context, objectID models.ObjectID, q SeriesQuery) (*models.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "series:"+string(objectID))

	if err, ok := c.failures[objectID]; ok {
		return nil, err
	}

	table, ok := c.tables[objectID]
	if !ok {
		return nil, &StatusError{Code: 400, Body: "Object not found"}
	}
	return table, nil
}

func (c *MockCollector) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shouldFail {
		return ErrCollectionFailed
	}
	return nil
}

func (c *MockCollector) Close() error {
	return nil
}
