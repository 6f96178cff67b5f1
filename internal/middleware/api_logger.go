package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-portal/internal/audit"
)

// APILogger logs every API call and enqueues an audit trail entry. The audit
// write is fire-and-forget: a logging failure must never fail the request.
func APILogger(recorder audit.Recorder, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		rid := c.GetString("request_id")
		actor := c.GetString("employee_id")
		status := c.Writer.Status()

		log.Info("api call",
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("employee_id", actor),
		)

		recorder.Record(c.Request.Context(), audit.Entry{
			RequestID: rid,
			ActorID:   actor,
			Action:    c.Request.Method + " " + c.FullPath(),
			Status:    status,
		})
	}
}
