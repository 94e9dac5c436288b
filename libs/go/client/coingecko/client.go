package coingecko

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	httpClient "github.com/mintroai/payment-service/libs/go/client/http"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	defaultTimeout = 10 * time.Second

	simplePricePath = "/simple/price"
	apiKeyHeader    = "x-cg-demo-api-key"
	usd             = "usd"
)

// Client manages communication with the CoinGecko API.
type Client struct {
	apiKey     string
	httpClient *httpClient.HTTPClient
	baseURL    string
	now        func() time.Time
}

// ClientOption configures a Client
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL   string
	timeout   time.Duration
	metrics   httpClient.MetricsCollector
	transport http.RoundTripper
	now       func() time.Time
}

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout bounds each HTTP attempt
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithMetricsCollector records upstream request metrics
func WithMetricsCollector(collector httpClient.MetricsCollector) ClientOption {
	return func(o *clientOptions) {
		o.metrics = collector
	}
}

// WithTransport replaces the HTTP transport
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithClock sets the clock used when the API omits last_updated_at
func WithClock(now func() time.Time) ClientOption {
	return func(o *clientOptions) {
		o.now = now
	}
}

// NewClient creates a new CoinGecko API client. The key is optional; the
// public API works without one at a lower rate limit.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	o := &clientOptions{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	clientOpts := []httpClient.ClientOption{
		httpClient.WithBaseURL(o.baseURL),
		httpClient.WithTimeout(o.timeout),
		httpClient.WithMetricsCollector(o.metrics),
		httpClient.WithLogger(logger.ForComponent(logger.ComponentOracle)),
		// 429 is reported to the caller instead of retried; retrying only burns quota
		httpClient.WithRetryConfig(&httpClient.RetryConfig{
			MaxRetries:           2,
			InitialInterval:      100 * time.Millisecond,
			MaxInterval:          time.Second,
			Multiplier:           2.0,
			MaxElapsedTime:       3 * time.Second,
			RetryableStatusCodes: []int{500, 502, 503, 504},
		}),
	}
	if o.transport != nil {
		clientOpts = append(clientOpts, httpClient.WithTransport(o.transport))
	}

	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient.NewHTTPClient(clientOpts...),
		baseURL:    o.baseURL,
		now:        o.now,
	}
}

// SimplePrice is one asset entry of the /simple/price response.
type SimplePrice struct {
	USD           *float64 `json:"usd"`
	USD24hChange  float64  `json:"usd_24h_change"`
	LastUpdatedAt int64    `json:"last_updated_at"`
}

// SimplePriceResponse is keyed by asset id (e.g., "ethereum")
type SimplePriceResponse map[string]SimplePrice

// FetchQuote fetches the USD price of one asset.
//
// Errors are *apperrors.Error: RATE_LIMITED on HTTP 429, ORACLE_UNAVAILABLE on
// transport or other upstream failures, PRICE_UNAVAILABLE when the response does
// not contain a usable price for the asset.
func (c *Client) FetchQuote(ctx context.Context, oracleID string) (*business.Quote, error) {
	if oracleID == "" {
		return nil, apperrors.New(apperrors.CodePriceUnavailable, "oracle id cannot be empty")
	}

	requestOptions := []httpClient.RequestOption{
		httpClient.WithQueryParam("ids", oracleID),
		httpClient.WithQueryParam("vs_currencies", usd),
		httpClient.WithQueryParam("include_24hr_change", "true"),
		httpClient.WithQueryParam("include_last_updated_at", "true"),
	}
	if c.apiKey != "" {
		requestOptions = append(requestOptions, httpClient.WithHeader(apiKeyHeader, c.apiKey))
	}

	resp, err := c.httpClient.Get(ctx, simplePricePath, requestOptions...)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		var httpErr *httpClient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
			return nil, apperrors.Wrap(apperrors.CodeRateLimited, "Rate limit exceeded. Please try again later.", err)
		}
		logger.Log.Error("CoinGecko API request failed", zap.String("oracle_id", oracleID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeOracleUnavailable, "Failed to fetch price",
			errors.Wrapf(err, "coingecko simple price %s", oracleID))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeOracleUnavailable, "Failed to fetch price",
			errors.Wrap(err, "failed to read response body"))
	}

	var priceResponse SimplePriceResponse
	if err := json.Unmarshal(body, &priceResponse); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeOracleUnavailable, "Failed to fetch price",
			errors.Wrapf(err, "failed to unmarshal response. Body: %s", string(body)))
	}

	priceData, ok := priceResponse[oracleID]
	if !ok || priceData.USD == nil || *priceData.USD <= 0 {
		return nil, apperrors.Newf(apperrors.CodePriceUnavailable, "Price data not available for %s", oracleID)
	}

	asOf := c.now().UTC()
	if priceData.LastUpdatedAt > 0 {
		asOf = time.Unix(priceData.LastUpdatedAt, 0).UTC()
	}

	return &business.Quote{
		USDPrice:     *priceData.USD,
		PctChange24h: priceData.USD24hChange,
		AsOf:         asOf,
	}, nil
}
