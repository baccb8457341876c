package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/traffic-extrema/internal/logger"
)

// RequestLogger logs one line per request keyed by route template.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		entry := logger.WithFields(map[string]interface{}{
			"method":     c.Request.Method,
			"route":      route,
			"status":     c.Writer.Status(),
			"bytes":      c.Writer.Size(),
			"latency_ms": time.Since(started).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if traceID := GetTraceID(c); traceID != "" {
			entry = entry.WithField(logger.FieldTraceID, traceID)
		}
		if runID := c.Writer.Header().Get("X-Run-ID"); runID != "" {
			entry = entry.WithField("run_id", runID)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}
	}
}
