package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger logs the request method, path, status code, and latency. Requests
// slower than slowThreshold log at warn; a zero threshold disables that.
func Logger(logger *zap.Logger, slowThreshold time.Duration) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("Request failed", fields...)
		case slowThreshold > 0 && latency > slowThreshold:
			logger.Warn("Slow request", fields...)
		default:
			logger.Info("Request handled", fields...)
		}
	}
}
