package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const monitorProbeTimeout = 5 * time.Second

// HealthChecker reports whether the monitoring server is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	monitor HealthChecker
}

func NewHealthHandler(monitor HealthChecker) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
	LatencyMs int64             `json:"monitor_latency_ms,omitempty"`
}

// Health probes the monitoring server and answers 503 when it is unreachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), monitorProbeTimeout)
	defer cancel()

	started := time.Now()
	err := h.monitor.HealthCheck(ctx)
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: timestamp(),
		Checks:    map[string]string{"monitor": "healthy"},
		LatencyMs: time.Since(started).Milliseconds(),
	}

	code := http.StatusOK
	if err != nil {
		resp.Status = "unhealthy"
		resp.Checks["monitor"] = "unhealthy: " + err.Error()
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "alive", Timestamp: timestamp()})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
