package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/traffic-extrema/internal/orchestrator"
	"github.com/OldStager01/traffic-extrema/pkg/models"
	"github.com/OldStager01/traffic-extrema/pkg/validation"
)

const RunIDHeader = "X-Run-ID"

type ReportHandler struct {
	runner     *orchestrator.Orchestrator
	defaultIDs []models.ObjectID
}

func NewReportHandler(runner *orchestrator.Orchestrator, defaultIDs []models.ObjectID) *ReportHandler {
	return &ReportHandler{runner: runner, defaultIDs: defaultIDs}
}

type ReportResponse struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt string                 `json:"generated_at"`
	Counts      map[models.Outcome]int `json:"counts"`
	Results     []models.ObjectResult  `json:"results"`
	Body        string                 `json:"body"`
}

// Report runs the configured query and returns the rendered report.
// Query parameters id (repeatable), sdate, edate, avg, max and thr override
// the configured values for this request only. format=json returns the
// structured results alongside the text.
func (h *ReportHandler) Report(c *gin.Context) {
	cfg, ids, err := h.requestConfig(c)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, validation.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	rep := h.runner.WithConfig(cfg, nil).Run(c.Request.Context(), ids)
	c.Header(RunIDHeader, rep.RunID)

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, ReportResponse{
			RunID:       rep.RunID,
			GeneratedAt: rep.GeneratedAt.UTC().Format(time.RFC3339),
			Counts:      rep.Counts(),
			Results:     rep.Results,
			Body:        rep.Body,
		})
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(rep.Body))
}

func (h *ReportHandler) requestConfig(c *gin.Context) (orchestrator.Config, []models.ObjectID, error) {
	cfg := h.runner.Config()

	ids := h.defaultIDs
	if raw := c.QueryArray("id"); len(raw) > 0 {
		ids = make([]models.ObjectID, 0, len(raw))
		for _, id := range raw {
			id = validation.SanitizeString(id)
			if err := validation.ValidateObjectID(id); err != nil {
				return cfg, nil, fmt.Errorf("id %q: %w", id, err)
			}
			ids = append(ids, models.ObjectID(id))
		}
	}
	if len(ids) == 0 {
		return cfg, nil, fmt.Errorf("%w: no object ids configured or requested", validation.ErrInvalidInput)
	}

	if v, ok := c.GetQuery("avg"); ok {
		if err := validation.ValidateAverage(v); err != nil {
			return cfg, nil, fmt.Errorf("avg: %w", err)
		}
		cfg.Query.Average = v
	}
	if v, ok := c.GetQuery("sdate"); ok {
		cfg.Query.StartDate = v
	}
	if v, ok := c.GetQuery("edate"); ok {
		cfg.Query.EndDate = v
	}
	if err := validation.ValidateDateRange(cfg.Query.StartDate, cfg.Query.EndDate); err != nil {
		return cfg, nil, fmt.Errorf("sdate/edate: %w", err)
	}

	if v, ok := c.GetQuery("max"); ok {
		if err := validation.ValidateFlag(v); err != nil {
			return cfg, nil, fmt.Errorf("max: %w", err)
		}
		cfg.ComputeMax = v == "1"
	}
	if v, ok := c.GetQuery("thr"); ok {
		if err := validation.ValidateFlag(v); err != nil {
			return cfg, nil, fmt.Errorf("thr: %w", err)
		}
		cfg.CheckThresholds = v == "1"
	}

	return cfg, ids, nil
}
