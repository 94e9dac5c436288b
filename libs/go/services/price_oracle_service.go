package services

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/interfaces"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/metrics"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PriceOracleService serves native token prices for supported networks from a
// short-lived cache in front of an upstream QuoteFetcher.
//
// Entries are keyed by oracle id, so networks sharing a gas token share an
// entry. Concurrent misses for the same oracle id each fetch upstream; the last
// write wins.
type PriceOracleService struct {
	registry     *NetworkRegistry
	fetcher      interfaces.QuoteFetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *zap.Logger

	mu    sync.RWMutex
	cache map[string]business.CachedQuote
}

// PriceOracleOption configures a PriceOracleService
type PriceOracleOption func(*PriceOracleService)

// WithCacheTTL sets how long a fetched price is served from the cache
func WithCacheTTL(ttl time.Duration) PriceOracleOption {
	return func(s *PriceOracleService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds each upstream fetch
func WithFetchTimeout(timeout time.Duration) PriceOracleOption {
	return func(s *PriceOracleService) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithOracleClock replaces the clock used for cache expiry
func WithOracleClock(now func() time.Time) PriceOracleOption {
	return func(s *PriceOracleService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPriceOracleService creates a price oracle over registry and fetcher
func NewPriceOracleService(registry *NetworkRegistry, fetcher interfaces.QuoteFetcher, opts ...PriceOracleOption) *PriceOracleService {
	s := &PriceOracleService{
		registry:     registry,
		fetcher:      fetcher,
		ttl:          constants.DefaultPriceCacheTTL,
		fetchTimeout: constants.DefaultPriceFetchTimeout,
		now:          time.Now,
		logger:       logger.ForComponent(logger.ComponentOracle),
		cache:        make(map[string]business.CachedQuote),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPrice returns the USD price of the gas token of the network with the
// given key. A cached price younger than the TTL is returned without I/O.
func (s *PriceOracleService) GetPrice(ctx context.Context, networkKey string) (*business.PriceSnapshot, error) {
	network, ok := s.registry.LookupByKey(networkKey)
	if !ok {
		return nil, s.registry.UnsupportedNetworkError(networkKey)
	}
	return s.priceFor(ctx, network.OracleID)
}

// GetAllPrices returns a result for every supported network. A failure for
// one network is recorded in its slot and does not affect the others.
func (s *PriceOracleService) GetAllPrices(ctx context.Context) map[string]business.PriceResult {
	var (
		order    []string
		byOracle = make(map[string][]string)
	)
	for _, network := range s.registry.All() {
		if _, seen := byOracle[network.OracleID]; !seen {
			order = append(order, network.OracleID)
		}
		byOracle[network.OracleID] = append(byOracle[network.OracleID], network.Key)
	}

	var (
		mu      sync.Mutex
		results = make(map[string]business.PriceResult)
		g       errgroup.Group
	)
	for _, oracleID := range order {
		oracleID := oracleID
		keys := byOracle[oracleID]
		g.Go(func() error {
			// keys sharing an oracle id run in sequence so later ones hit the cache
			for _, key := range keys {
				snapshot, err := s.priceFor(ctx, oracleID)
				mu.Lock()
				results[key] = business.PriceResult{Snapshot: snapshot, Err: err}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ClearCache drops every cached price
func (s *PriceOracleService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]business.CachedQuote)
}

func (s *PriceOracleService) priceFor(ctx context.Context, oracleID string) (*business.PriceSnapshot, error) {
	s.mu.RLock()
	entry, ok := s.cache[oracleID]
	s.mu.RUnlock()

	if ok && entry.IsValid(s.now(), s.ttl) {
		metrics.RecordPriceCacheLookup(true)
		snapshot := entry.Snapshot
		return &snapshot, nil
	}
	metrics.RecordPriceCacheLookup(false)

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	quote, err := s.fetcher.FetchQuote(fetchCtx, oracleID)
	metrics.RecordPriceFetch(oracleID, err)
	if err != nil {
		s.logger.Warn("Failed to fetch price", zap.String("oracle_id", oracleID), zap.Error(err))
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.CodeOracleUnavailable, "Failed to fetch price", err)
	}
	if quote == nil || math.IsNaN(quote.USDPrice) || math.IsInf(quote.USDPrice, 0) || quote.USDPrice <= 0 {
		return nil, apperrors.Newf(apperrors.CodePriceUnavailable, "Price data not available for %s", oracleID)
	}

	snapshot := business.PriceSnapshot{
		OracleID:     oracleID,
		USDPrice:     quote.USDPrice,
		PctChange24h: quote.PctChange24h,
		ObservedAt:   quote.AsOf,
	}

	s.mu.Lock()
	s.cache[oracleID] = business.CachedQuote{Snapshot: snapshot, CachedAt: s.now()}
	s.mu.Unlock()

	return &snapshot, nil
}
