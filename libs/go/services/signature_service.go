package services

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/metrics"
	"github.com/mintroai/payment-service/libs/go/signer"
	"github.com/mintroai/payment-service/libs/go/types/api/params"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"go.uber.org/zap"
)

const nonceEntropyRange = 1_000_000

// SignatureService issues deployment authorizations and verifies them against
// the process signer. Deadline and nonce are covered by the signature but are
// enforced on-chain, not here.
type SignatureService struct {
	signer           *signer.Signer
	authorizationTTL time.Duration
	now              func() time.Time
	logger           *zap.Logger
}

// SignatureOption configures a SignatureService
type SignatureOption func(*SignatureService)

// WithAuthorizationTTL sets the default deadline offset
func WithAuthorizationTTL(ttl time.Duration) SignatureOption {
	return func(s *SignatureService) {
		if ttl > 0 {
			s.authorizationTTL = ttl
		}
	}
}

// WithSignatureClock replaces the clock used for deadlines and nonces
func WithSignatureClock(now func() time.Time) SignatureOption {
	return func(s *SignatureService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSignatureService creates a signature service for the given signer
func NewSignatureService(s *signer.Signer, opts ...SignatureOption) *SignatureService {
	service := &SignatureService{
		signer:           s,
		authorizationTTL: constants.DefaultAuthorizationTTL,
		now:              time.Now,
		logger:           logger.ForComponent(logger.ComponentSigner),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Authorize signs a deployment. A non-nil Salt selects the CREATE2 encoding.
func (s *SignatureService) Authorize(p params.AuthorizationParams) (*business.DeploymentAuthorization, error) {
	var missing []string
	if len(p.Bytecode) == 0 {
		missing = append(missing, "bytecode")
	}
	if p.PaymentAmount == nil {
		missing = append(missing, "payment_amount")
	}
	if p.DeployerAddress == nil {
		missing = append(missing, "deployer_address")
	}
	if p.ChainID == 0 {
		missing = append(missing, "chain_id")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	deadline := s.generateDeadline()
	if p.Deadline != nil {
		deadline = *p.Deadline
	}
	nonce := p.Nonce
	if nonce == nil {
		var err error
		if nonce, err = s.generateNonce(); err != nil {
			return nil, err
		}
	}

	data := business.DeploymentData{
		Bytecode:        append([]byte(nil), p.Bytecode...),
		BytecodeHash:    crypto.Keccak256Hash(p.Bytecode),
		Salt:            p.Salt,
		PaymentAmount:   new(big.Int).Set(p.PaymentAmount),
		DeployerAddress: *p.DeployerAddress,
		Deadline:        deadline,
		Nonce:           new(big.Int).Set(nonce),
		ChainID:         p.ChainID,
	}

	digest, err := DeploymentDigest(data)
	if err != nil {
		return nil, err
	}
	signature, err := s.signer.SignPersonalMessage(digest.Bytes())
	if err != nil {
		return nil, err
	}

	deploymentType := constants.DeploymentTypeCreate
	if data.IsCreate2() {
		deploymentType = constants.DeploymentTypeCreate2
	}
	metrics.RecordAuthorizationIssued(deploymentType)
	s.logger.Info("Deployment authorization issued",
		zap.String("deployment_type", deploymentType),
		zap.String("deployer", data.DeployerAddress.Hex()),
		zap.Int64("chain_id", data.ChainID),
		zap.String("payment_amount", data.PaymentAmount.String()),
		zap.String("nonce", data.Nonce.String()),
		zap.Uint64("deadline", data.Deadline))

	return &business.DeploymentAuthorization{
		Signature: signature,
		Data:      data,
		Signer:    s.signer.Address(),
		TxValue:   new(big.Int).Set(data.PaymentAmount),
	}, nil
}

// Verify reports whether signature was produced by this service's signer over
// data. A malformed or foreign signature is a negative result, not an error.
// BytecodeHash is recomputed from Bytecode when it is zero.
func (s *SignatureService) Verify(data business.DeploymentData, signature []byte) (*business.VerificationResult, error) {
	var missing []string
	if data.BytecodeHash == (common.Hash{}) {
		if len(data.Bytecode) == 0 {
			missing = append(missing, "bytecode_hash")
		} else {
			data.BytecodeHash = crypto.Keccak256Hash(data.Bytecode)
		}
	}
	if data.PaymentAmount == nil {
		missing = append(missing, "payment_amount")
	}
	if data.DeployerAddress == (common.Address{}) {
		missing = append(missing, "deployer_address")
	}
	if data.Nonce == nil {
		missing = append(missing, "nonce")
	}
	if data.ChainID == 0 {
		missing = append(missing, "chain_id")
	}
	if len(signature) == 0 {
		missing = append(missing, "signature")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	digest, err := DeploymentDigest(data)
	if err != nil {
		return nil, err
	}

	result := &business.VerificationResult{Signer: s.signer.Address()}
	recovered, err := signer.RecoverPersonalMessageSigner(digest.Bytes(), signature)
	if err != nil {
		s.logger.Debug("Signature recovery failed", zap.Error(err))
	} else {
		result.Recovered = recovered
		result.Valid = recovered == s.signer.Address()
	}

	metrics.RecordVerification(result.Valid)
	return result, nil
}

// SignerInfo describes the signing key; Ready is false for the insecure test key
func (s *SignatureService) SignerInfo() business.SignerInfo {
	return business.SignerInfo{
		Address: s.signer.Address(),
		Ready:   !s.signer.Insecure(),
	}
}

// Address returns the signer's address
func (s *SignatureService) Address() common.Address {
	return s.signer.Address()
}

func (s *SignatureService) generateDeadline() uint64 {
	return uint64(s.now().Add(s.authorizationTTL).Unix())
}

// generateNonce returns unix milliseconds plus a random offset below one million
func (s *SignatureService) generateNonce() (*big.Int, error) {
	offset, err := rand.Int(rand.Reader, big.NewInt(nonceEntropyRange))
	if err != nil {
		return nil, err
	}
	return offset.Add(offset, big.NewInt(s.now().UnixMilli())), nil
}

func missingFields(fields []string) *apperrors.Error {
	return apperrors.Newf(apperrors.CodeMissingField, "Missing required parameters: %s", strings.Join(fields, ", ")).
		WithDetails(apperrors.DetailFields, fields)
}
