package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/types/api/responses"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultCleanupInterval = 5 * time.Minute
	defaultIdleTimeout     = 10 * time.Minute
)

// RateLimiter applies a token bucket per client
type RateLimiter struct {
	// limiters stores rate limiters per client identifier
	limiters sync.Map
	// rate is the number of requests per second allowed
	rate int
	// burst is the maximum burst size
	burst int
	// cleanupInterval is how often to clean up idle limiters
	cleanupInterval time.Duration
	// idleTimeout is how long a limiter may go unused before it is dropped
	idleTimeout time.Duration
	// skipPaths are never rate limited
	skipPaths map[string]struct{}

	stopOnce sync.Once
	stop     chan struct{}
	now      func() time.Time
}

// limiterEntry holds a rate limiter and its last access time
type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

func (e *limiterEntry) touch(now time.Time) {
	e.mu.Lock()
	e.lastAccess = now
	e.mu.Unlock()
}

func (e *limiterEntry) idleSince(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastAccess)
}

// NewRateLimiter creates a rate limiter with the specified rate and burst and
// starts its cleanup loop. Call Stop to end the loop.
func NewRateLimiter(requestsPerSecond, burst int) *RateLimiter {
	rl := newRateLimiter(requestsPerSecond, burst, defaultCleanupInterval)
	go rl.cleanup()
	return rl
}

func newRateLimiter(requestsPerSecond, burst int, cleanupInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:            requestsPerSecond,
		burst:           burst,
		cleanupInterval: cleanupInterval,
		idleTimeout:     defaultIdleTimeout,
		skipPaths: map[string]struct{}{
			"/health":  {},
			"/healthz": {},
			"/metrics": {},
		},
		stop: make(chan struct{}),
		now:  time.Now,
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup removes limiters that haven't been accessed recently
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	now := rl.now()
	rl.limiters.Range(func(key, value interface{}) bool {
		if entry, ok := value.(*limiterEntry); ok && entry.idleSince(now) > rl.idleTimeout {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// getLimiter returns the rate limiter for a specific key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now()
	if val, ok := rl.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.touch(now)
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(rl.rate), rl.burst),
		lastAccess: now,
	}
	actual, _ := rl.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// getClientIdentifier keys the limiter by API key prefix when one is sent,
// otherwise by client IP
func getClientIdentifier(c *gin.Context) string {
	if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
		if len(apiKey) > 8 {
			apiKey = apiKey[:8]
		}
		return "api:" + apiKey
	}

	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = "unknown"
	}
	return "ip:" + clientIP
}

// Middleware returns a Gin middleware handler for rate limiting. Rejected
// requests get a 429 with the RATE_LIMITED error envelope.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	limit := strconv.Itoa(rl.rate)
	return func(c *gin.Context) {
		if _, skip := rl.skipPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		clientID := getClientIdentifier(c)
		limiter := rl.getLimiter(clientID)
		reset := strconv.FormatInt(rl.now().Add(time.Second).Unix(), 10)

		if !limiter.Allow() {
			logger.ForComponent(logger.ComponentMiddleware).Warn("Rate limit exceeded",
				zap.String("client_id", clientID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("correlation_id", GetCorrelationID(c)),
			)

			c.Header("X-RateLimit-Limit", limit)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", reset)
			c.Header("Retry-After", "1")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, responses.ErrorResponse{
				Error: responses.ErrorDetail{
					Code:    string(apperrors.CodeRateLimited),
					Message: "Too many requests. Please try again later.",
				},
				CorrelationID: GetCorrelationID(c),
			})
			return
		}

		remaining := int(limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", reset)

		c.Next()
	}
}
