package constants

import "time"

// Fee schedule in USD
const (
	TokenBaseFee         = 0
	TokenBasicFeatureFee = 50
	TokenMaxTxFee        = 20
	TokenTransferTaxFee  = 20
	TokenAntiBotFee      = 20
	VestingBaseFee       = 100
)

// Breakdown item names and estimate defaults
const (
	BasicFeaturesItem     = "Basic Features"
	MaxTxItem             = "Max Transaction Limit"
	TransferTaxItem       = "Transfer Tax"
	AntiBotItem           = "Anti-Bot Protection"
	ChainSignaturesFree   = "Chain Signatures deployment"
	TestnetFree           = "Testnet deployment"
	FreeReasonSeparator   = " + "
	EstimateTokenName     = "Token"
	EstimateTokenSymbol   = "TKN"
	EstimateDecimals      = 18
	EstimateInitialSupply = 1000000
)

// Oracle and authorization defaults
const (
	DefaultPriceCacheTTL     = 60 * time.Second
	DefaultPriceFetchTimeout = 5 * time.Second
	DefaultAuthorizationTTL  = time.Hour
	BaseUnitDecimals         = 18
)
