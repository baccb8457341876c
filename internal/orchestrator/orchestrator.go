package orchestrator

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/OldStager01/traffic-extrema/internal/collector"
	"github.com/OldStager01/traffic-extrema/internal/logger"
	"github.com/OldStager01/traffic-extrema/internal/metrics"
	"github.com/OldStager01/traffic-extrema/internal/report"
	"github.com/OldStager01/traffic-extrema/pkg/models"
)

type Config struct {
	Query           collector.SeriesQuery
	ComputeMax      bool
	CheckThresholds bool
	// Concurrency bounds how many objects are in flight. 1 keeps the run
	// strictly sequential.
	Concurrency int
}

type Orchestrator struct {
	config    Config
	collector collector.Collector
	pipeline  *Pipeline
	progress  Progress
	metrics   *metrics.Metrics
}

func New(cfg Config, coll collector.Collector, progress Progress, m *metrics.Metrics) *Orchestrator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if progress == nil {
		progress = NopProgress{}
	}
	if m == nil {
		m = metrics.Get()
	}

	return &Orchestrator{
		config:    cfg,
		collector: coll,
		pipeline: NewPipeline(PipelineConfig{
			Query:           cfg.Query,
			ComputeMax:      cfg.ComputeMax,
			CheckThresholds: cfg.CheckThresholds,
		}, coll),
		progress: progress,
		metrics:  m,
	}
}

func (o *Orchestrator) Config() Config {
	return o.config
}

// WithConfig returns an orchestrator sharing the collector and metrics but
// running with cfg.
func (o *Orchestrator) WithConfig(cfg Config, progress Progress) *Orchestrator {
	return New(cfg, o.collector, progress, o.metrics)
}

// Run processes every object and renders the report. Results keep the order
// of ids regardless of concurrency; a failing object never stops the run.
func (o *Orchestrator) Run(ctx context.Context, ids []models.ObjectID) *models.Report {
	runID := models.NewRunID()
	ctx = logger.WithTraceID(ctx, runID)
	started := time.Now()

	logger.InfoCtxf(ctx, "Processing %d objects (concurrency %d)", len(ids), o.config.Concurrency)
	o.progress.Start(len(ids))

	mapper := iter.Mapper[models.ObjectID, models.ObjectResult]{MaxGoroutines: o.config.Concurrency}
	results := mapper.Map(ids, func(id *models.ObjectID) models.ObjectResult {
		objectStarted := time.Now()
		res := o.pipeline.Process(ctx, *id)
		o.metrics.RecordObject(res.Outcome, time.Since(objectStarted))
		o.progress.Advance(*id, res.Outcome)
		return res
	})

	o.progress.Finish()

	rep := &models.Report{
		RunID:       runID,
		GeneratedAt: started,
		Results:     results,
		Body:        report.Render(results),
	}

	elapsed := time.Since(started)
	o.metrics.RecordRun(len(ids), elapsed)

	counts := rep.Counts()
	logger.WithFields(map[string]interface{}{
		logger.FieldTraceID: runID,
		"objects":           len(ids),
		"ok":                counts[models.OutcomeOK],
		"empty":             counts[models.OutcomeEmpty],
		"transport_failure": counts[models.OutcomeTransportFailure],
		"parse_failure":     counts[models.OutcomeParseFailure],
		"duration_ms":       elapsed.Milliseconds(),
	}).Info("Run complete")

	return rep
}
