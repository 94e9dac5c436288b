package business

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentData is the full set of fields covered by a deployment signature
type DeploymentData struct {
	Bytecode        []byte
	BytecodeHash    common.Hash
	Salt            *common.Hash
	PaymentAmount   *big.Int
	DeployerAddress common.Address
	Deadline        uint64
	Nonce           *big.Int
	ChainID         int64
}

// IsCreate2 reports whether the data uses the deterministic-address encoding
func (d DeploymentData) IsCreate2() bool {
	return d.Salt != nil
}

// DeploymentAuthorization is a signed attestation for one deployment
type DeploymentAuthorization struct {
	Signature []byte
	Data      DeploymentData
	Signer    common.Address
	// TxValue is the literal value the deployment transaction must carry
	TxValue *big.Int
}

// VerificationResult is the outcome of checking a deployment signature
type VerificationResult struct {
	Valid     bool
	Recovered common.Address
	Signer    common.Address
}

// SignerInfo describes the process signing key
type SignerInfo struct {
	Address common.Address
	Ready   bool
}

// PreparedDeployment bundles an authorization with the pricing that produced it
type PreparedDeployment struct {
	Authorization *DeploymentAuthorization
	Pricing       PricingResult
	Network       NetworkRecord
}
