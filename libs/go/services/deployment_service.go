package services

import (
	"context"
	"math/big"
	"time"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/interfaces"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/types/api/params"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"go.uber.org/zap"
)

// DeploymentService prices deployments, converts fees to the network's native
// token and issues signed deployment authorizations.
type DeploymentService struct {
	registry   *NetworkRegistry
	pricing    interfaces.PricingService
	oracle     interfaces.PriceOracle
	signatures interfaces.SignatureService
	now        func() time.Time
	logger     *zap.Logger
}

// NewDeploymentService wires the deployment flow together
func NewDeploymentService(
	registry *NetworkRegistry,
	pricing interfaces.PricingService,
	oracle interfaces.PriceOracle,
	signatures interfaces.SignatureService,
) *DeploymentService {
	return &DeploymentService{
		registry:   registry,
		pricing:    pricing,
		oracle:     oracle,
		signatures: signatures,
		now:        time.Now,
		logger:     logger.ForComponent(logger.ComponentPricing),
	}
}

// Calculate validates spec and prices it on the network named by networkKey,
// or on spec.ChainID when no key is given. The native token amount is best
// effort: when the price oracle fails the USD pricing is still returned and
// Token is nil.
func (s *DeploymentService) Calculate(ctx context.Context, spec business.ContractSpec, networkKey string) (*business.PriceCalculation, error) {
	if err := s.pricing.Validate(spec); err != nil {
		return nil, err
	}

	network, err := s.resolveNetwork(spec, networkKey)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.pricing.Price(spec, network)
	if err != nil {
		return nil, err
	}

	calculation := &business.PriceCalculation{
		ContractType: spec.ContractType,
		Pricing: business.PricingResult{
			USD:       breakdown.Total,
			Breakdown: *breakdown,
			IsFree:    breakdown.IsFree(),
		},
		Timestamp: s.now().UTC(),
	}
	if network == nil {
		return calculation, nil
	}

	calculation.Network = network.Key
	if breakdown.IsFree() {
		return calculation, nil
	}

	snapshot, err := s.oracle.GetPrice(ctx, network.Key)
	if err != nil {
		s.logger.Warn("Failed to fetch token price, returning USD pricing only",
			zap.String("network", network.Key),
			zap.Error(err))
		return calculation, nil
	}

	units, err := USDToBaseUnits(breakdown.Total, snapshot.USDPrice)
	if err != nil {
		s.logger.Warn("Failed to convert fee to native token",
			zap.String("network", network.Key),
			zap.Error(err))
		return calculation, nil
	}
	calculation.Token = &business.TokenAmount{
		Symbol:       network.GasToken,
		USDPrice:     snapshot.USDPrice,
		PctChange24h: snapshot.PctChange24h,
		BaseUnits:    units.String(),
		Amount:       FormatBaseUnits(units),
	}
	return calculation, nil
}

// Estimate prices a contract from its type and features alone. Missing token
// metadata is filled with placeholder values.
func (s *DeploymentService) Estimate(ctx context.Context, spec business.ContractSpec, networkKey string) (*business.PriceCalculation, error) {
	if spec.ContractType == business.ContractTypeToken {
		if spec.TokenName == "" {
			spec.TokenName = constants.EstimateTokenName
		}
		if spec.TokenSymbol == "" {
			spec.TokenSymbol = constants.EstimateTokenSymbol
		}
		if spec.Decimals == nil {
			decimals := uint8(constants.EstimateDecimals)
			spec.Decimals = &decimals
		}
		if spec.InitialSupply == nil || spec.InitialSupply.Sign() == 0 {
			spec.InitialSupply = big.NewInt(constants.EstimateInitialSupply)
		}
	}

	calculation, err := s.Calculate(ctx, spec, networkKey)
	if err != nil {
		return nil, err
	}
	calculation.Estimate = true
	return calculation, nil
}

// Prepare prices a deployment on the chain given in the contract spec and signs it.
// Unlike Calculate, a failed price lookup aborts: a fee is never signed
// against a guessed price.
func (s *DeploymentService) Prepare(ctx context.Context, p params.PrepareDeploymentParams) (*business.PreparedDeployment, error) {
	if err := s.pricing.Validate(p.Spec); err != nil {
		return nil, err
	}

	var missing []string
	if len(p.Bytecode) == 0 {
		missing = append(missing, "bytecode")
	}
	if p.DeployerAddress == nil {
		missing = append(missing, "deployer_address")
	}
	// chain id 0 is never a deployable chain; it means the client sent none
	if p.Spec.ChainID == nil || *p.Spec.ChainID == 0 {
		missing = append(missing, "chain_id")
	}

	var salt = p.Salt
	switch p.DeploymentType {
	case "", constants.DeploymentTypeCreate:
		salt = nil
	case constants.DeploymentTypeCreate2:
		if salt == nil {
			missing = append(missing, "salt")
		}
	default:
		return nil, apperrors.Newf(apperrors.CodeInvalidField, "Unknown deployment type %q", p.DeploymentType).
			WithDetails(apperrors.DetailFields, []string{"deployment_type"})
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	network, ok := s.registry.LookupByChainID(*p.Spec.ChainID)
	if !ok {
		return nil, s.registry.UnsupportedChainError(*p.Spec.ChainID)
	}

	breakdown, err := s.pricing.Price(p.Spec, &network)
	if err != nil {
		return nil, err
	}

	payment := new(big.Int)
	if !breakdown.IsFree() && breakdown.Total > 0 {
		snapshot, err := s.oracle.GetPrice(ctx, network.Key)
		if err != nil {
			return nil, err
		}
		if payment, err = USDToBaseUnits(breakdown.Total, snapshot.USDPrice); err != nil {
			return nil, err
		}
	}

	authorization, err := s.signatures.Authorize(params.AuthorizationParams{
		Bytecode:        p.Bytecode,
		Salt:            salt,
		PaymentAmount:   payment,
		DeployerAddress: p.DeployerAddress,
		ChainID:         network.ChainID,
		Deadline:        p.Deadline,
		Nonce:           p.Nonce,
	})
	if err != nil {
		return nil, err
	}

	return &business.PreparedDeployment{
		Authorization: authorization,
		Pricing: business.PricingResult{
			USD:       breakdown.Total,
			Breakdown: *breakdown,
			IsFree:    breakdown.IsFree(),
		},
		Network: network,
	}, nil
}

// Verify checks a deployment signature against the process signer
func (s *DeploymentService) Verify(data business.DeploymentData, signature []byte) (*business.VerificationResult, error) {
	return s.signatures.Verify(data, signature)
}

// SignerInfo describes the process signer
func (s *DeploymentService) SignerInfo() business.SignerInfo {
	return s.signatures.SignerInfo()
}

func (s *DeploymentService) resolveNetwork(spec business.ContractSpec, networkKey string) (*business.NetworkRecord, error) {
	if networkKey != "" {
		network, ok := s.registry.LookupByKey(networkKey)
		if !ok {
			return nil, s.registry.UnsupportedNetworkError(networkKey)
		}
		return &network, nil
	}
	if spec.ChainID != nil && *spec.ChainID != 0 {
		network, ok := s.registry.LookupByChainID(*spec.ChainID)
		if !ok {
			return nil, s.registry.UnsupportedChainError(*spec.ChainID)
		}
		return &network, nil
	}
	return nil, nil
}
