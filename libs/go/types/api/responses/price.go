package responses

import (
	"time"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

// PriceResponse is the current USD price of a network's gas token
type PriceResponse struct {
	Network      string    `json:"network"`
	Symbol       string    `json:"symbol"`
	OracleID     string    `json:"oracle_id"`
	Price        float64   `json:"price"`
	PctChange24h float64   `json:"pct_change_24h"`
	LastUpdated  time.Time `json:"last_updated"`
}

// NewPriceResponse combines a snapshot with the network it was requested for
func NewPriceResponse(network business.NetworkRecord, snapshot business.PriceSnapshot) PriceResponse {
	return PriceResponse{
		Network:      network.Key,
		Symbol:       network.GasToken,
		OracleID:     snapshot.OracleID,
		Price:        snapshot.USDPrice,
		PctChange24h: snapshot.PctChange24h,
		LastUpdated:  snapshot.ObservedAt,
	}
}

// PriceEntry is one network of the /prices listing. Failed lookups keep the
// network and symbol and carry the error instead of the price fields.
type PriceEntry struct {
	Network      string       `json:"network"`
	Symbol       string       `json:"symbol"`
	OracleID     string       `json:"oracle_id"`
	Price        *float64     `json:"price,omitempty"`
	PctChange24h *float64     `json:"pct_change_24h,omitempty"`
	LastUpdated  *time.Time   `json:"last_updated,omitempty"`
	Error        *ErrorDetail `json:"error,omitempty"`
}

// NewPriceEntry converts one oracle result
func NewPriceEntry(network business.NetworkRecord, result business.PriceResult) PriceEntry {
	entry := PriceEntry{
		Network:  network.Key,
		Symbol:   network.GasToken,
		OracleID: network.OracleID,
	}
	if result.Err != nil || result.Snapshot == nil {
		detail := ErrorDetail{Code: string(apperrors.CodeOracleUnavailable), Message: "Price data unavailable"}
		if appErr, ok := apperrors.As(result.Err); ok {
			detail.Code = string(appErr.Code)
			detail.Message = appErr.Message
		} else if result.Err != nil {
			detail.Message = result.Err.Error()
		}
		entry.Error = &detail
		return entry
	}

	price := NewPriceResponse(network, *result.Snapshot)
	entry.OracleID = price.OracleID
	entry.Price = &price.Price
	entry.PctChange24h = &price.PctChange24h
	entry.LastUpdated = &price.LastUpdated
	return entry
}
