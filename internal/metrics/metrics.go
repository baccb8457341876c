package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

const namespace = "extrema"

// Metrics keeps run statistics twice: Prometheus collectors on a private
// registry for /metrics, and plain counters for the JSON snapshot.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal       prometheus.Counter
	objectsTotal    *prometheus.CounterVec
	objectDuration  *prometheus.HistogramVec
	lastRunObjects  prometheus.Gauge
	lastRunDuration prometheus.Gauge
	lastRunTime     prometheus.Gauge

	mu   sync.RWMutex
	snap Snapshot
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	RunsTotal         int64                    `json:"runs_total"`
	ObjectsByOutcome  map[models.Outcome]int64 `json:"objects_by_outcome"`
	LastRunObjects    int                      `json:"last_run_objects"`
	LastRunDurationMS int64                    `json:"last_run_duration_ms"`
	LastRunAt         *time.Time               `json:"last_run_at,omitempty"`
}

var (
	instance *Metrics
	once     sync.Once
)

func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Report runs completed.",
		}),
		objectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_total",
			Help:      "Objects processed, by outcome.",
		}, []string{"outcome"}),
		objectDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "object_duration_seconds",
			Help:      "Time spent fetching and analysing one object, by outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
		lastRunObjects: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_objects",
			Help:      "Objects in the most recent run.",
		}),
		lastRunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the most recent run.",
		}),
		lastRunTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished.",
		}),
		snap: Snapshot{ObjectsByOutcome: make(map[models.Outcome]int64)},
	}
}

// RecordObject counts one processed object. Labels are bounded by the
// outcome set, never by object id.
func (m *Metrics) RecordObject(outcome models.Outcome, d time.Duration) {
	m.objectsTotal.WithLabelValues(string(outcome)).Inc()
	m.objectDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ObjectsByOutcome[outcome]++
}

func (m *Metrics) RecordRun(objects int, d time.Duration) {
	at := time.Now().UTC()

	m.runsTotal.Inc()
	m.lastRunObjects.Set(float64(objects))
	m.lastRunDuration.Set(d.Seconds())
	m.lastRunTime.Set(float64(at.Unix()))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.RunsTotal++
	m.snap.LastRunObjects = objects
	m.snap.LastRunDurationMS = d.Milliseconds()
	m.snap.LastRunAt = &at
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snap
	snap.ObjectsByOutcome = make(map[models.Outcome]int64, len(m.snap.ObjectsByOutcome))
	for k, v := range m.snap.ObjectsByOutcome {
		snap.ObjectsByOutcome[k] = v
	}
	if m.snap.LastRunAt != nil {
		at := *m.snap.LastRunAt
		snap.LastRunAt = &at
	}
	return snap
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
