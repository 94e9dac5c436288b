package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mintroai/payment-service/libs/go/types/api/params"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

// NetworkRegistry resolves supported deployment networks
type NetworkRegistry interface {
	LookupByChainID(chainID int64) (business.NetworkRecord, bool)
	LookupByKey(key string) (business.NetworkRecord, bool)
	AllChainIDs() []int64
	All() []business.NetworkRecord
	Keys() []string
	NetworkInfo(chainID int64) business.NetworkInfo
}

// PricingService computes USD deployment fees
type PricingService interface {
	Price(spec business.ContractSpec, network *business.NetworkRecord) (*business.PriceBreakdown, error)
	Validate(spec business.ContractSpec) error
	Schedule() business.PricingSchedule
}

// PriceOracle serves cached native token prices keyed by network
type PriceOracle interface {
	GetPrice(ctx context.Context, networkKey string) (*business.PriceSnapshot, error)
	GetAllPrices(ctx context.Context) map[string]business.PriceResult
	ClearCache()
}

// SignatureService issues and checks deployment authorizations
type SignatureService interface {
	Authorize(params params.AuthorizationParams) (*business.DeploymentAuthorization, error)
	Verify(data business.DeploymentData, signature []byte) (*business.VerificationResult, error)
	SignerInfo() business.SignerInfo
	Address() common.Address
}

// DeploymentService combines pricing, price lookups and signing for the API
type DeploymentService interface {
	Calculate(ctx context.Context, spec business.ContractSpec, networkKey string) (*business.PriceCalculation, error)
	Estimate(ctx context.Context, spec business.ContractSpec, networkKey string) (*business.PriceCalculation, error)
	Prepare(ctx context.Context, params params.PrepareDeploymentParams) (*business.PreparedDeployment, error)
	Verify(data business.DeploymentData, signature []byte) (*business.VerificationResult, error)
	SignerInfo() business.SignerInfo
}
