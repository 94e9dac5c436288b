package business

import "time"

// Quote is one observation returned by the upstream price source
type Quote struct {
	USDPrice     float64
	PctChange24h float64
	AsOf         time.Time
}

// PriceSnapshot is an immutable cached price for one oracle id
type PriceSnapshot struct {
	OracleID     string    `json:"oracle_id"`
	USDPrice     float64   `json:"usd_price"`
	PctChange24h float64   `json:"pct_change_24h"`
	ObservedAt   time.Time `json:"observed_at"`
}

// CachedQuote is a cache slot; it is replaced wholesale, never updated
type CachedQuote struct {
	Snapshot PriceSnapshot
	CachedAt time.Time
}

// IsValid reports whether the entry is still inside its TTL at now
func (c CachedQuote) IsValid(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.CachedAt) < ttl
}

// PriceResult holds either a snapshot or the error for one network
type PriceResult struct {
	Snapshot *PriceSnapshot
	Err      error
}
