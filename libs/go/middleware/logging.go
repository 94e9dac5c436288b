package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/logger"
	"go.uber.org/zap"
)

// maxLoggedBodySize caps how much of a request or response body is logged
const maxLoggedBodySize = 16 << 10

var redactedHeaders = map[string]struct{}{
	"Authorization": {},
	"X-Api-Key":     {},
	"Cookie":        {},
}

// bodyLogWriter is a wrapper around gin.ResponseWriter that captures the response body
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBodySize - w.body.Len(); room > 0 {
		if len(b) > room {
			w.body.Write(b[:room])
		} else {
			w.body.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// EnhancedLoggingMiddleware logs request and response bodies. It is meant for
// development stages; pass false to make it a no-op.
func EnhancedLoggingMiddleware(isDevelopment bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isDevelopment {
			c.Next()
			return
		}

		startTime := time.Now()
		log := LogWithCorrelationID(c.Request.Context(), logger.ComponentMiddleware)

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		headers := make(map[string]string, len(c.Request.Header))
		for key, values := range c.Request.Header {
			if _, redact := redactedHeaders[key]; redact {
				headers[key] = "[REDACTED]"
			} else {
				headers[key] = values[0]
			}
		}

		log.Debug("Detailed request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Any("headers", headers),
			zap.Any("body", loggableJSON(c.GetHeader("Content-Type"), requestBody)),
			zap.Int("body_size", len(requestBody)),
		)

		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		log.Debug("Detailed response",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(startTime)),
			zap.Any("body", loggableJSON(c.Writer.Header().Get("Content-Type"), blw.body.Bytes())),
			zap.Int("body_size", c.Writer.Size()),
			zap.Int("errors_count", len(c.Errors)),
		)

		for _, err := range c.Errors {
			log.Error("Request error",
				zap.Error(err.Err),
				zap.Uint64("type", uint64(err.Type)),
				zap.Any("meta", err.Meta),
			)
		}
	}
}

func loggableJSON(contentType string, body []byte) interface{} {
	if len(body) == 0 || !strings.HasPrefix(contentType, "application/json") {
		return nil
	}
	if len(body) > maxLoggedBodySize {
		return string(body[:maxLoggedBodySize])
	}
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	return parsed
}

// RequestLoggingMiddleware logs one line per completed request. 5xx responses
// are logged at error level, 4xx at warn.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("correlation_id", GetCorrelationID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(startTime)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}

		log := logger.ForComponent(logger.ComponentMiddleware)
		switch {
		case status >= 500:
			log.Error("Request completed", fields...)
		case status >= 400:
			log.Warn("Request completed", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
