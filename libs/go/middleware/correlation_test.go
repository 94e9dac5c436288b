package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name                 string
		requestCorrelationID string
		expectNewID          bool
	}{
		{
			name:        "New ID generated when header not present",
			expectNewID: true,
		},
		{
			name:                 "Existing ID preserved when header present",
			requestCorrelationID: "test-correlation-id-123",
		},
		{
			name:                 "Oversized ID replaced",
			requestCorrelationID: strings.Repeat("a", maxCorrelationIDLength+1),
			expectNewID:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CorrelationIDMiddleware())

			var fromGin, fromContext string
			router.GET("/test", func(c *gin.Context) {
				fromGin = GetCorrelationID(c)
				fromContext = CorrelationIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestCorrelationID != "" {
				req.Header.Set(CorrelationIDHeader, tt.requestCorrelationID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			responseCorrelationID := w.Header().Get(CorrelationIDHeader)
			assert.Equal(t, responseCorrelationID, fromGin)
			assert.Equal(t, responseCorrelationID, fromContext)

			if tt.expectNewID {
				_, err := uuid.Parse(responseCorrelationID)
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.requestCorrelationID, responseCorrelationID)
			}
		})
	}
}

func TestCorrelationIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, CorrelationIDFromContext(req.Context()))
}
