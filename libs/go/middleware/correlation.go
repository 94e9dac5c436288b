package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mintroai/payment-service/libs/go/logger"
	"go.uber.org/zap"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	correlationIDKey    = "correlationID"

	// maxCorrelationIDLength bounds caller-supplied ids before they reach logs
	maxCorrelationIDLength = 128
)

// CorrelationIDMiddleware ensures every request has a correlation ID. A
// caller-supplied X-Correlation-ID is kept; otherwise a UUID is generated.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" || len(correlationID) > maxCorrelationIDLength {
			correlationID = uuid.New().String()
		}

		c.Set(correlationIDKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(WithCorrelationID(c.Request.Context(), correlationID))

		c.Next()
	}
}

// GetCorrelationID retrieves the correlation ID from the Gin context
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(correlationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const correlationIDContextKey contextKey = "correlationID"

// WithCorrelationID adds correlation ID to context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey, correlationID)
}

// CorrelationIDFromContext retrieves correlation ID from context
func CorrelationIDFromContext(ctx context.Context) string {
	if correlationID, ok := ctx.Value(correlationIDContextKey).(string); ok {
		return correlationID
	}
	return ""
}

// LogWithCorrelationID returns the component logger tagged with the request's
// correlation ID, if any
func LogWithCorrelationID(ctx context.Context, component logger.LogComponent) *zap.Logger {
	log := logger.ForComponent(component)
	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		return log.With(zap.String("correlation_id", correlationID))
	}
	return log
}
