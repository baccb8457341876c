package simulator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/traffic-extrema/internal/collector"
	"github.com/OldStager01/traffic-extrema/internal/metrics"
	"github.com/OldStager01/traffic-extrema/internal/orchestrator"
	"github.com/OldStager01/traffic-extrema/internal/simulator"
	"github.com/OldStager01/traffic-extrema/pkg/models"
)

func int64p(v int64) *int64 { return &v }

var fixedNow = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*simulator.Simulator, *collector.HTTPCollector) {
	t.Helper()

	sim := simulator.New(simulator.Config{
		Username: "ops",
		Passhash: "1815236212",
		Now:      func() time.Time { return fixedNow },
	})
	srv := httptest.NewServer(sim.Handler())
	t.Cleanup(srv.Close)

	coll := collector.NewHTTPCollector(collector.HTTPCollectorConfig{
		BaseURL:  srv.URL,
		Username: "ops",
		Passhash: "1815236212",
		Timeout:  5 * time.Second,
	})
	t.Cleanup(func() { coll.Close() })

	return sim, coll
}

func TestSimulator_Thresholds(t *testing.T) {
	sim, coll := setup(t)
	sim.AddObject("2001", simulator.ObjectSimConfig{
		BaseBytesPerSec: 5_000_000,
		WarningLimit:    int64p(6_250_000),
		ErrorLimit:      int64p(6_875_000),
	})
	sim.AddObject("2002", simulator.ObjectSimConfig{BaseBytesPerSec: 5_000_000, WarningLimit: int64p(6_250_000)})

	limits := coll.Thresholds(context.Background(), "2001")
	require.NotNil(t, limits.Warning)
	require.NotNil(t, limits.Error)
	assert.Equal(t, 50.0, *limits.Warning)
	assert.Equal(t, 55.0, *limits.Error)

	limits = coll.Thresholds(context.Background(), "2002")
	assert.NotNil(t, limits.Warning)
	assert.Nil(t, limits.Error)
	_, ok := limits.Pair()
	assert.False(t, ok)
}

func TestSimulator_SeriesIsDeterministic(t *testing.T) {
	sim, coll := setup(t)
	sim.AddObject("2001", simulator.ObjectSimConfig{
		BaseBytesPerSec: 5_000_000,
		Variance:        1_000_000,
		GapRatio:        0.2,
		Pattern:         simulator.PatternDaily,
	})

	q := collector.SeriesQuery{Average: "3600", StartDate: "2024-01-01", EndDate: "2024-01-02"}
	first, err := coll.Series(context.Background(), "2001", q)
	require.NoError(t, err)
	second, err := coll.Series(context.Background(), "2001", q)
	require.NoError(t, err)

	assert.Len(t, first.Rows, 24)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, 1, first.Index("Traffic Total (Speed)(RAW)")-first.Index("Traffic Total (Speed)"))
}

func TestSimulator_UnknownObjectAndAuth(t *testing.T) {
	_, coll := setup(t)

	_, err := coll.Series(context.Background(), "404", collector.SeriesQuery{})
	var statusErr *collector.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "400 - Object not found", statusErr.Error())

	assert.NoError(t, coll.HealthCheck(context.Background()))

	sim := simulator.New(simulator.Config{Username: "ops", Passhash: "right"})
	srv := httptest.NewServer(sim.Handler())
	defer srv.Close()

	bad := collector.NewHTTPCollector(collector.HTTPCollectorConfig{BaseURL: srv.URL, Username: "ops", Passhash: "wrong"})
	assert.Error(t, bad.HealthCheck(context.Background()))
}

func TestSimulator_EndToEndReport(t *testing.T) {
	sim, coll := setup(t)
	sim.AddObject("2001", simulator.ObjectSimConfig{
		BaseBytesPerSec: 6_500_000,
		WarningLimit:    int64p(6_250_000),
		ErrorLimit:      int64p(6_875_000),
	})
	sim.AddObject("2002", simulator.ObjectSimConfig{BaseBytesPerSec: 1_000_000, GapRatio: 1})

	runner := orchestrator.New(orchestrator.Config{
		Query:           collector.SeriesQuery{Average: "3600", StartDate: "2024-01-01", EndDate: "2024-01-02"},
		ComputeMax:      true,
		CheckThresholds: true,
		Concurrency:     2,
	}, coll, nil, metrics.New())

	rep := runner.Run(context.Background(), []models.ObjectID{"2001", "2002", "2003"})
	require.Len(t, rep.Results, 3)

	ok := rep.Results[0]
	assert.Equal(t, models.OutcomeOK, ok.Outcome)
	require.NotNil(t, ok.Verdict)
	// 52 Mbit/s against warning 50 and error 55
	assert.Equal(t, models.ClassCrossesWarningOnly, ok.Verdict.Class)
	assert.Equal(t, "52.00 Mbit/s", ok.Max.Sample.DisplaySpeed)

	assert.Equal(t, models.OutcomeEmpty, rep.Results[1].Outcome)
	assert.Equal(t, models.OutcomeTransportFailure, rep.Results[2].Outcome)

	assert.Contains(t, rep.Body, "MAX SPEED for ID 2001 crosses Upper Warning Limit(50.0 Mbit/s) but is within Upper Error Limit(55.0 Mbit/s)")
	assert.Contains(t, rep.Body, "No non-NaN values found in 'Traffic Total (Speed)(RAW)' for ID 2002")
	assert.Contains(t, rep.Body, "Error fetching historic data for ID 2003: 400 - Object not found")
}

func TestSimulator_ObjectAdmin(t *testing.T) {
	sim := simulator.New(simulator.Config{})
	srv := httptest.NewServer(sim.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/objects/7", strings.NewReader(`{"base_bytes_per_sec": 1000, "pattern": "weekly", "limitmaxerror": 2000}`))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	obj, ok := sim.Object("7")
	require.True(t, ok)
	assert.Equal(t, "weekly", obj.Status().Pattern)
	v, ok := obj.Limit("limitmaxerror")
	assert.True(t, ok)
	assert.Equal(t, int64(2000), v)

	resp, err = http.Get(srv.URL + "/objects")
	require.NoError(t, err)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, 1, list.Count)

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/objects/7", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, ok = sim.Object("7")
	assert.False(t, ok)
}

func TestPatterns(t *testing.T) {
	monday10 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	saturday10 := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 100.0, simulator.PatternSteady.Apply(100, monday10))
	assert.InDelta(t, 140.0, simulator.PatternDaily.Apply(100, monday10), 1e-9)
	assert.InDelta(t, 50.0, simulator.PatternWeekly.Apply(100, saturday10), 1e-9)
	assert.Equal(t, "steady", simulator.ParsePattern("unknown").Name())

	sine := &simulator.SineWavePattern{}
	for h := 0; h < 24; h++ {
		v := sine.Apply(100, monday10.Add(time.Duration(h)*time.Hour))
		assert.GreaterOrEqual(t, v, 70.0-1e-9)
		assert.LessOrEqual(t, v, 130.0+1e-9)
	}
}
