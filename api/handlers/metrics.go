package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/traffic-extrema/internal/metrics"
)

type MetricsHandler struct {
	metrics *metrics.Metrics
}

func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// Stats returns the run counters as JSON
func (h *MetricsHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// Exposition serves the counters in text exposition format
func (h *MetricsHandler) Exposition() gin.HandlerFunc {
	return gin.WrapH(h.metrics.Handler())
}
