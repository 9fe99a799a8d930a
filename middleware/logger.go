package middleware

import (
	"log/slog"
	"time"

	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// Logger assigns a trace id to every request and logs method, path, status
// and latency when the request completes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := ctxmanage.SetTraceIdOfRequest(c)
		start := time.Now()

		c.Next()

		slog.Info("request completed",
			slog.String(logkey.TraceID, traceId),
			slog.String("Method", c.Request.Method),
			slog.String("Path", c.Request.URL.Path),
			slog.Int("StatusCode", c.Writer.Status()),
			slog.Int64("Latency µs", time.Since(start).Microseconds()),
		)
	}
}
