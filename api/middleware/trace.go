package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OldStager01/traffic-extrema/internal/logger"
)

const TraceIDHeader = "X-Trace-ID"

// TraceID tags the request, and its context, with the caller's trace id or a new one
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(logger.FieldTraceID, id)
		c.Header(TraceIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), id))
		c.Next()
	}
}

func GetTraceID(c *gin.Context) string {
	return c.GetString(logger.FieldTraceID)
}
