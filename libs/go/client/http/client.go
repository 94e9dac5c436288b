package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mintroai/payment-service/libs/go/logger"
	"go.uber.org/zap"
)

// RequestOption represents a function that can modify an HTTP request
type RequestOption func(*http.Request)

// ClientOption represents a function that can modify the HTTP client
type ClientOption func(*HTTPClient)

// HTTPError represents an error returned from an HTTP request
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d %s: %s", e.Method, e.URL, e.StatusCode, e.Status, e.Body)
}

// HTTPClient is a small HTTP client with retries and metrics hooks
type HTTPClient struct {
	httpClient     *http.Client
	baseURL        string
	defaultHeaders map[string]string
	retryConfig    *RetryConfig
	metrics        MetricsCollector
	logger         *zap.Logger
}

// RetryConfig configures the retry behavior
type RetryConfig struct {
	MaxRetries           int
	InitialInterval      time.Duration
	MaxInterval          time.Duration
	Multiplier           float64
	MaxElapsedTime       time.Duration
	RetryableStatusCodes []int
}

// MetricsCollector defines an interface for collecting metrics
type MetricsCollector interface {
	RecordRequestDuration(method, path string, statusCode int, duration time.Duration)
	RecordRequestCount(method, path string, statusCode int)
	RecordRequestError(method, path string)
}

// DefaultRetryConfig provides sensible defaults for retries
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:           3,
		InitialInterval:      100 * time.Millisecond,
		MaxInterval:          10 * time.Second,
		Multiplier:           2.0,
		MaxElapsedTime:       30 * time.Second,
		RetryableStatusCodes: []int{408, 429, 500, 502, 503, 504},
	}
}

// NewHTTPClient creates a new HTTPClient with the given options
func NewHTTPClient(options ...ClientOption) *HTTPClient {
	client := &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		defaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		retryConfig: DefaultRetryConfig(),
		metrics:     &NoopMetricsCollector{},
		logger:      logger.Log,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = baseURL
	}
}

// WithDefaultHeader adds a default header to all requests
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *HTTPClient) {
		c.defaultHeaders[key] = value
	}
}

// WithTimeout sets the timeout for all requests
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig sets the retry configuration. A nil config disables retries.
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *HTTPClient) {
		c.retryConfig = config
	}
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector MetricsCollector) ClientOption {
	return func(c *HTTPClient) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransport replaces the underlying round tripper
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Transport = rt
	}
}

// WithHeader adds a header to the request
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// WithQueryParam adds a query parameter to the request
func WithQueryParam(key, value string) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Add(key, value)
		req.URL.RawQuery = q.Encode()
	}
}

// Get performs an HTTP GET request
func (c *HTTPClient) Get(ctx context.Context, path string, options ...RequestOption) (*http.Response, error) {
	return c.DoRequest(ctx, http.MethodGet, path, nil, options...)
}

// Post performs an HTTP POST request with a JSON body
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}, options ...RequestOption) (*http.Response, error) {
	return c.DoRequest(ctx, http.MethodPost, path, body, options...)
}

// DoRequest performs a request, retrying transport failures and retryable status
// codes. A response with status >= 400 is returned together with an *HTTPError
// whose body has already been read.
func (c *HTTPClient) DoRequest(ctx context.Context, method, path string, body interface{}, options ...RequestOption) (*http.Response, error) {
	start := time.Now()

	fullURL, err := c.buildURL(path)
	if err != nil {
		return nil, err
	}

	var bodyJSON []byte
	if body != nil {
		bodyJSON, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	newRequest := func() (*http.Request, error) {
		var bodyReader io.Reader
		if bodyJSON != nil {
			bodyReader = bytes.NewReader(bodyJSON)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for key, value := range c.defaultHeaders {
			req.Header.Set(key, value)
		}
		if bodyJSON != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for _, option := range options {
			option(req)
		}
		return req, nil
	}

	var resp *http.Response
	var requestErr error

	if c.retryConfig != nil && c.retryConfig.MaxRetries > 0 {
		operation := func() error {
			req, err := newRequest()
			if err != nil {
				return backoff.Permanent(err)
			}
			// nolint:bodyclose // closed below when retrying, otherwise by the caller
			resp, requestErr = c.httpClient.Do(req)
			if requestErr != nil {
				return requestErr
			}
			if c.isRetryable(resp.StatusCode) {
				return fmt.Errorf("retryable status code: %d", resp.StatusCode)
			}
			return nil
		}

		expBackoff := backoff.NewExponentialBackOff()
		expBackoff.InitialInterval = c.retryConfig.InitialInterval
		expBackoff.MaxInterval = c.retryConfig.MaxInterval
		expBackoff.Multiplier = c.retryConfig.Multiplier
		expBackoff.MaxElapsedTime = c.retryConfig.MaxElapsedTime

		notify := func(err error, wait time.Duration) {
			if resp != nil && resp.Body != nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
			}
			c.logger.Debug("Retrying HTTP request",
				zap.String("method", method),
				zap.String("url", fullURL),
				zap.Duration("wait", wait),
				zap.Error(err))
		}

		policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(c.retryConfig.MaxRetries)), ctx)
		retryErr := backoff.RetryNotify(operation, policy, notify)
		if retryErr != nil && requestErr == nil && (resp == nil || ctx.Err() != nil) {
			requestErr = retryErr
		}
	} else {
		req, err := newRequest()
		if err != nil {
			return nil, err
		}
		resp, requestErr = c.httpClient.Do(req)
	}

	duration := time.Since(start)
	statusCode := 0
	if resp != nil && requestErr == nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordRequestDuration(method, path, statusCode, duration)
	c.metrics.RecordRequestCount(method, path, statusCode)

	if requestErr != nil {
		c.metrics.RecordRequestError(method, path)
		c.logger.Error("HTTP request failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Error(requestErr),
			zap.Duration("duration", duration))
		return nil, fmt.Errorf("http request failed: %w", requestErr)
	}

	if resp.StatusCode >= 400 {
		c.metrics.RecordRequestError(method, path)

		var bodyBytes []byte
		if resp.Body != nil {
			bodyBytes, _ = io.ReadAll(resp.Body)
			resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        fullURL,
			Method:     method,
			Body:       string(bodyBytes),
		}

		c.logger.Warn("HTTP error response",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(bodyBytes)),
			zap.Duration("duration", duration))

		return resp, httpErr
	}

	c.logger.Debug("HTTP request successful",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))

	return resp, nil
}

func (c *HTTPClient) buildURL(path string) (string, error) {
	if c.baseURL == "" {
		if _, err := url.ParseRequestURI(path); err != nil {
			return "", fmt.Errorf("invalid path used without base URL: %s, error: %w", path, err)
		}
		return path, nil
	}
	trimmedPath := path
	if !strings.HasPrefix(trimmedPath, "/") {
		trimmedPath = "/" + trimmedPath
	}
	return strings.TrimSuffix(c.baseURL, "/") + trimmedPath, nil
}

func (c *HTTPClient) isRetryable(statusCode int) bool {
	for _, code := range c.retryConfig.RetryableStatusCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

// ProcessJSONResponse decodes a JSON response into the provided target
func (c *HTTPClient) ProcessJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        resp.Request.URL.String(),
			Method:     resp.Request.Method,
			Body:       string(bodyBytes),
		}
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

// GetBaseURL returns the configured base URL
func (c *HTTPClient) GetBaseURL() string {
	return c.baseURL
}

// NoopMetricsCollector is a metrics collector that does nothing
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordRequestDuration(method, path string, statusCode int, duration time.Duration) {
}
func (n *NoopMetricsCollector) RecordRequestCount(method, path string, statusCode int) {}
func (n *NoopMetricsCollector) RecordRequestError(method, path string)                 {}
