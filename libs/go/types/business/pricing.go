package business

import "time"

// FeeItem is one priced line of a breakdown
type FeeItem struct {
	Name     string         `json:"name"`
	Features []TokenFeature `json:"features,omitempty"`
	Price    float64        `json:"price"`
}

// PriceBreakdown is the itemized USD fee for a contract
type PriceBreakdown struct {
	Base       float64   `json:"base"`
	Features   []FeeItem `json:"features"`
	FreeReason string    `json:"free_reason,omitempty"`
	Total      float64   `json:"total"`
}

// IsFree reports whether the deployment was exempted from fees
func (b PriceBreakdown) IsFree() bool {
	return b.FreeReason != ""
}

// FeeSchedule holds the USD prices used by the pricing engine
type FeeSchedule struct {
	TokenBase       float64
	BasicFeatureFee float64
	BasicFeatures   []TokenFeature
	MaxTxFee        float64
	TransferTaxFee  float64
	AntiBotFee      float64
	VestingBase     float64
}

// PricingSchedule is the public description of the fee table
type PricingSchedule struct {
	Token   TokenPricingSchedule   `json:"token"`
	Vesting VestingPricingSchedule `json:"vesting"`
}

// TokenPricingSchedule describes token fees
type TokenPricingSchedule struct {
	Base     string               `json:"base"`
	Basic    BasicFeatureSchedule `json:"basic"`
	Advanced map[string]FeeEntry  `json:"advanced"`
}

// BasicFeatureSchedule describes the bundled basic feature fee
type BasicFeatureSchedule struct {
	Price       float64        `json:"price"`
	Features    []TokenFeature `json:"features"`
	Description string         `json:"description"`
}

// FeeEntry is a single priced option
type FeeEntry struct {
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// VestingPricingSchedule describes vesting fees
type VestingPricingSchedule struct {
	Base        float64 `json:"base"`
	Description string  `json:"description"`
}

// TokenAmount is the native token amount a fee converts to
type TokenAmount struct {
	Symbol       string  `json:"symbol"`
	USDPrice     float64 `json:"usd_price"`
	PctChange24h float64 `json:"pct_change_24h"`
	BaseUnits    string  `json:"base_units"`
	Amount       string  `json:"amount"`
}

// PricingResult is the USD side of a price calculation
type PricingResult struct {
	USD       float64        `json:"usd"`
	Breakdown PriceBreakdown `json:"breakdown"`
	IsFree    bool           `json:"is_free"`
}

// PriceCalculation is the full result of pricing a contract on a network.
// Token is nil when the deployment is free, no network was given, or the
// price oracle could not be reached.
type PriceCalculation struct {
	ContractType ContractType  `json:"contract_type"`
	Network      string        `json:"network,omitempty"`
	Estimate     bool          `json:"estimate,omitempty"`
	Pricing      PricingResult `json:"pricing"`
	Token        *TokenAmount  `json:"token"`
	Timestamp    time.Time     `json:"timestamp"`
}
