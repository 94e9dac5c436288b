package services

import (
	"strings"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"go.uber.org/zap"
)

// DefaultFeeSchedule returns the production USD fee table
func DefaultFeeSchedule() business.FeeSchedule {
	return business.FeeSchedule{
		TokenBase:       constants.TokenBaseFee,
		BasicFeatureFee: constants.TokenBasicFeatureFee,
		BasicFeatures:   business.BasicTokenFeatures,
		MaxTxFee:        constants.TokenMaxTxFee,
		TransferTaxFee:  constants.TokenTransferTaxFee,
		AntiBotFee:      constants.TokenAntiBotFee,
		VestingBase:     constants.VestingBaseFee,
	}
}

// PricingService computes the USD fee for deploying a contract. It has no
// shared state and is safe for concurrent use.
type PricingService struct {
	fees   business.FeeSchedule
	logger *zap.Logger
}

// NewPricingService creates a pricing service for the given fee table
func NewPricingService(fees business.FeeSchedule) *PricingService {
	return &PricingService{
		fees:   fees,
		logger: logger.ForComponent(logger.ComponentPricing),
	}
}

// Price returns the itemized USD fee for spec on network. network may be nil
// when the caller has not chosen one yet.
//
// Chain signature deployments and testnet deployments are free; the feature
// list of a free deployment is empty.
func (s *PricingService) Price(spec business.ContractSpec, network *business.NetworkRecord) (*business.PriceBreakdown, error) {
	if err := checkContractType(spec.ContractType); err != nil {
		return nil, err
	}

	if reason := freeReason(spec, network); reason != "" {
		s.logger.Debug("Deployment is exempt from fees",
			zap.String("contract_type", string(spec.ContractType)),
			zap.String("reason", reason))
		return &business.PriceBreakdown{
			Base:       0,
			Features:   []business.FeeItem{},
			FreeReason: reason,
			Total:      0,
		}, nil
	}

	switch spec.ContractType {
	case business.ContractTypeToken:
		return s.priceToken(spec), nil
	default:
		return &business.PriceBreakdown{
			Base:     s.fees.VestingBase,
			Features: []business.FeeItem{},
			Total:    s.fees.VestingBase,
		}, nil
	}
}

func (s *PricingService) priceToken(spec business.ContractSpec) *business.PriceBreakdown {
	breakdown := &business.PriceBreakdown{
		Base:     s.fees.TokenBase,
		Features: []business.FeeItem{},
		Total:    s.fees.TokenBase,
	}

	if selected := spec.SelectedBasicFeatures(s.fees.BasicFeatures); len(selected) > 0 {
		breakdown.Features = append(breakdown.Features, business.FeeItem{
			Name:     constants.BasicFeaturesItem,
			Features: selected,
			Price:    s.fees.BasicFeatureFee,
		})
		breakdown.Total += s.fees.BasicFeatureFee
	}

	addOns := []struct {
		value *float64
		name  string
		price float64
	}{
		{spec.MaxTxAmount, constants.MaxTxItem, s.fees.MaxTxFee},
		{spec.TransferTax, constants.TransferTaxItem, s.fees.TransferTaxFee},
		{spec.CooldownTime, constants.AntiBotItem, s.fees.AntiBotFee},
	}
	for _, addOn := range addOns {
		if addOn.value == nil || !(*addOn.value > 0) {
			continue
		}
		breakdown.Features = append(breakdown.Features, business.FeeItem{
			Name:  addOn.name,
			Price: addOn.price,
		})
		breakdown.Total += addOn.price
	}

	return breakdown
}

// Validate checks the fields required to deploy spec. Every problem is
// reported in a single INVALID_CONTRACT_SPEC error.
func (s *PricingService) Validate(spec business.ContractSpec) error {
	if err := checkContractType(spec.ContractType); err != nil {
		return err
	}
	if spec.ContractType != business.ContractTypeToken {
		return nil
	}

	var fields, problems []string
	need := func(field string, present bool) {
		if !present {
			fields = append(fields, field)
			problems = append(problems, field+" is required")
		}
	}
	need("token_name", strings.TrimSpace(spec.TokenName) != "")
	need("token_symbol", strings.TrimSpace(spec.TokenSymbol) != "")
	need("decimals", spec.Decimals != nil)
	need("initial_supply", spec.InitialSupply != nil)
	if spec.InitialSupply != nil && spec.InitialSupply.Sign() <= 0 {
		fields = append(fields, "initial_supply")
		problems = append(problems, "initial_supply must be greater than 0")
	}

	if len(fields) > 0 {
		return apperrors.Newf(apperrors.CodeInvalidContractSpec,
			"Invalid token contract: %s", strings.Join(problems, ", ")).
			WithDetails(apperrors.DetailFields, fields)
	}
	return nil
}

// Schedule describes the fee table for display
func (s *PricingService) Schedule() business.PricingSchedule {
	return business.PricingSchedule{
		Token: business.TokenPricingSchedule{
			Base: "Free (base token features only)",
			Basic: business.BasicFeatureSchedule{
				Price:       s.fees.BasicFeatureFee,
				Features:    s.fees.BasicFeatures,
				Description: "One-time fee for any combination of basic features",
			},
			Advanced: map[string]business.FeeEntry{
				"max_tx":       {Price: s.fees.MaxTxFee, Description: "Maximum transaction limit"},
				"transfer_tax": {Price: s.fees.TransferTaxFee, Description: "Transfer tax functionality"},
				"anti_bot":     {Price: s.fees.AntiBotFee, Description: "Anti-bot protection with cooldown"},
			},
		},
		Vesting: business.VestingPricingSchedule{
			Base:        s.fees.VestingBase,
			Description: "Fixed price for vesting contract",
		},
	}
}

func checkContractType(contractType business.ContractType) error {
	if contractType == "" {
		return apperrors.New(apperrors.CodeInvalidContractSpec, "Contract type is required").
			WithDetails(apperrors.DetailFields, []string{"contract_type"})
	}
	if !contractType.IsSupported() {
		return apperrors.Newf(apperrors.CodeUnsupportedContractType, "Unsupported contract type: %s", contractType).
			WithDetails(apperrors.DetailContractType, string(contractType))
	}
	return nil
}

func freeReason(spec business.ContractSpec, network *business.NetworkRecord) string {
	var reasons []string
	if spec.IsChainSignatures {
		reasons = append(reasons, constants.ChainSignaturesFree)
	}
	if network != nil && network.IsTestnet {
		reasons = append(reasons, constants.TestnetFree)
	}
	return strings.Join(reasons, constants.FreeReasonSeparator)
}
