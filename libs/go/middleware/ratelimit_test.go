package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/types/api/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, rps, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(rps, burst)
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.Use(CorrelationIDMiddleware(), rl.Middleware())
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
	router.GET("/test", ok)
	router.GET("/health", ok)
	router.GET("/metrics", ok)
	return router
}

func doRequest(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_ForwardedForRequiresTrustedProxy(t *testing.T) {
	router := newLimitedRouter(t, 1, 1)
	require.NoError(t, router.SetTrustedProxies(nil))

	assert.Equal(t, http.StatusOK, doRequest(router, "/test", map[string]string{"X-Forwarded-For": "10.1.1.1"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "/test", map[string]string{"X-Forwarded-For": "10.1.1.2"}).Code)
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within rate limit", func(t *testing.T) {
		router := newLimitedRouter(t, 10, 20)

		for i := 0; i < 10; i++ {
			w := doRequest(router, "/test", map[string]string{"X-Forwarded-For": "192.168.1.1"})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
		}
	})

	t.Run("blocks requests exceeding rate limit with the error envelope", func(t *testing.T) {
		router := newLimitedRouter(t, 1, 2)
		headers := map[string]string{"X-Forwarded-For": "192.168.1.2"}

		doRequest(router, "/test", headers)
		doRequest(router, "/test", headers)
		w := doRequest(router, "/test", headers)

		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

		var body responses.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, string(apperrors.CodeRateLimited), body.Error.Code)
		assert.Equal(t, w.Header().Get(CorrelationIDHeader), body.CorrelationID)
	})

	t.Run("different clients have separate limits", func(t *testing.T) {
		router := newLimitedRouter(t, 1, 1)

		assert.Equal(t, http.StatusOK, doRequest(router, "/test", map[string]string{"X-Forwarded-For": "192.168.1.3"}).Code)
		assert.Equal(t, http.StatusOK, doRequest(router, "/test", map[string]string{"X-Forwarded-For": "192.168.1.4"}).Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "/test", map[string]string{"X-Forwarded-For": "192.168.1.3"}).Code)
	})

	t.Run("API key based rate limiting", func(t *testing.T) {
		router := newLimitedRouter(t, 1, 1)

		assert.Equal(t, http.StatusOK, doRequest(router, "/test", map[string]string{"X-API-Key": "test-key-123"}).Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "/test", map[string]string{"X-API-Key": "test-key-123"}).Code)
		// keyed by the first 8 characters
		assert.Equal(t, http.StatusOK, doRequest(router, "/test", map[string]string{"X-API-Key": "other-ke-456"}).Code)
	})

	t.Run("health and metrics endpoints bypass rate limiting", func(t *testing.T) {
		router := newLimitedRouter(t, 1, 1)

		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, doRequest(router, "/health", nil).Code)
			assert.Equal(t, http.StatusOK, doRequest(router, "/metrics", nil).Code)
		}
	})

	t.Run("concurrent requests handling", func(t *testing.T) {
		router := newLimitedRouter(t, 10, 20)

		var wg sync.WaitGroup
		var mu sync.Mutex
		successCount, rateLimitedCount := 0, 0

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := doRequest(router, "/test", map[string]string{"X-Forwarded-For": "192.168.1.100"})

				mu.Lock()
				defer mu.Unlock()
				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					rateLimitedCount++
				}
			}()
		}
		wg.Wait()

		assert.GreaterOrEqual(t, successCount, 20)
		assert.Greater(t, rateLimitedCount, 0)
		assert.Equal(t, 50, successCount+rateLimitedCount)
	})
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(10, 20, time.Hour)
	rl.now = func() time.Time { return now }

	rl.getLimiter("old-client")
	now = now.Add(defaultIdleTimeout - time.Minute)
	rl.getLimiter("recent-client")

	now = now.Add(2 * time.Minute)
	rl.evictIdle()

	_, exists := rl.limiters.Load("old-client")
	assert.False(t, exists)
	_, exists = rl.limiters.Load("recent-client")
	assert.True(t, exists)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
