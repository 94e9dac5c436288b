package params

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

// AuthorizationParams contains the inputs for issuing a deployment authorization.
// Deadline and Nonce are generated when nil.
type AuthorizationParams struct {
	Bytecode        []byte
	Salt            *common.Hash
	PaymentAmount   *big.Int
	DeployerAddress *common.Address
	ChainID         int64
	Deadline        *uint64
	Nonce           *big.Int
}

// PrepareDeploymentParams contains the inputs for pricing and signing a deployment
type PrepareDeploymentParams struct {
	Spec            business.ContractSpec
	Bytecode        []byte
	DeployerAddress *common.Address
	DeploymentType  string
	Salt            *common.Hash
	Deadline        *uint64
	Nonce           *big.Int
}
