package web

import (
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// RequestLogger gives every request an id (taken from X-Request-Id or freshly
// generated), echoes it back, attaches a logger carrying it to the request
// context and writes one access-log line when the request completes.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if strings.TrimSpace(rid) == "" {
			rid = uuid.NewString()
		}

		reqLogger := base.With(zap.String("request_id", rid))
		c.Set("request_id", rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()

		reqLogger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
