package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type key string

// TraceIdKey is the context key under which the per-request trace id is stored.
const TraceIdKey key = "1"

// SetTraceIdOfRequest attaches a fresh trace id to the request context and
// returns it. Called once by the logger middleware.
func SetTraceIdOfRequest(c *gin.Context) string {
	traceId := uuid.NewString()
	ctx := context.WithValue(c.Request.Context(), TraceIdKey, traceId)
	c.Request = c.Request.WithContext(ctx)
	return traceId
}

// GetTraceIdOfRequest returns the trace id set by the logger middleware,
// or a new one if the middleware did not run.
func GetTraceIdOfRequest(c *gin.Context) string {
	ctx := c.Request.Context()
	traceId, ok := ctx.Value(TraceIdKey).(string)
	if !ok {
		traceId = uuid.NewString()
	}
	return traceId
}
