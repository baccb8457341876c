package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/OldStager01/traffic-extrema/internal/analyzer"
	"github.com/OldStager01/traffic-extrema/internal/collector"
	"github.com/OldStager01/traffic-extrema/internal/logger"
	"github.com/OldStager01/traffic-extrema/internal/series"
	"github.com/OldStager01/traffic-extrema/pkg/models"
)

type PipelineConfig struct {
	Query           collector.SeriesQuery
	ComputeMax      bool
	CheckThresholds bool
}

// Pipeline runs fetch, clean, analyze for a single object
type Pipeline struct {
	config    PipelineConfig
	collector collector.Collector
}

func NewPipeline(cfg PipelineConfig, coll collector.Collector) *Pipeline {
	return &Pipeline{config: cfg, collector: coll}
}

// wantsVerdict reports whether a classification line can appear at all.
// Limits are only used for the MAX section, so they are not fetched otherwise.
func (p *Pipeline) wantsVerdict() bool {
	return p.config.ComputeMax && p.config.CheckThresholds
}

// Process always returns a result; failures become the result's outcome.
func (p *Pipeline) Process(ctx context.Context, objectID models.ObjectID) (result models.ObjectResult) {
	result.ObjectID = objectID
	log := logger.WithObjectCtx(ctx, objectID)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Processing panicked: %v", r)
			result = models.ObjectResult{
				ObjectID: objectID,
				Outcome:  models.OutcomeParseFailure,
				Detail:   fmt.Sprint(r),
			}
		}
	}()

	// Step 1: Thresholds
	var limits models.Limits
	if p.wantsVerdict() {
		limits = p.collector.Thresholds(ctx, objectID)
	}

	// Step 2: Historic data
	table, err := p.collector.Series(ctx, objectID, p.config.Query)
	if err != nil {
		return p.fail(result, err)
	}

	// Step 3: Clean
	clean, err := series.Clean(table)
	if err != nil {
		return p.fail(result, err)
	}
	if len(clean) == 0 {
		log.Warn("No usable samples in series")
		result.Outcome = models.OutcomeEmpty
		return result
	}

	// Step 4: Extrema and verdict
	if p.config.ComputeMax {
		peak, _ := analyzer.Max(clean)
		result.Max = &peak

		if pair, ok := limits.Pair(); ok && p.wantsVerdict() {
			verdict, err := analyzer.Evaluate(peak.Sample, pair)
			if err != nil {
				log.Warnf("Peak speed unreadable: %v", err)
				result.Outcome = models.OutcomeParseFailure
				result.Detail = err.Error()
				return result
			}
			result.Verdict = &verdict
		} else if p.wantsVerdict() {
			log.Debug("Threshold check skipped, limits incomplete")
		}
	}

	low, _ := analyzer.Min(clean)
	result.Min = &low
	result.Outcome = models.OutcomeOK

	log.Debugf("Processed %d samples", len(clean))
	return result
}

func (p *Pipeline) fail(result models.ObjectResult, err error) models.ObjectResult {
	result.Outcome, result.Detail = classifyError(err)
	logger.WithObject(result.ObjectID).Warnf("Object failed (%s): %s", result.Outcome, result.Detail)
	return result
}

func classifyError(err error) (models.Outcome, string) {
	var statusErr *collector.StatusError
	switch {
	case errors.As(err, &statusErr):
		return models.OutcomeTransportFailure, statusErr.Error()
	case errors.Is(err, collector.ErrInvalidResponse), errors.Is(err, series.ErrMissingColumns):
		return models.OutcomeParseFailure, err.Error()
	default:
		return models.OutcomeTransportFailure, err.Error()
	}
}
