package requests

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/types/api/params"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

// PrepareDeploymentRequest is the body of POST /signature/prepare
type PrepareDeploymentRequest struct {
	ContractData    ContractSpecRequest `json:"contract_data"`
	Bytecode        string              `json:"bytecode"`
	DeployerAddress string              `json:"deployer_address"`
	DeploymentType  string              `json:"deployment_type,omitempty"`
	Salt            string              `json:"salt,omitempty"`
}

// ToParams decodes the hex fields. Empty fields are left nil so the service
// can report every missing field at once.
func (r PrepareDeploymentRequest) ToParams() (params.PrepareDeploymentParams, error) {
	spec, err := r.ContractData.ToBusiness()
	if err != nil {
		return params.PrepareDeploymentParams{}, err
	}

	p := params.PrepareDeploymentParams{
		Spec:           spec,
		DeploymentType: strings.ToLower(strings.TrimSpace(r.DeploymentType)),
	}
	if p.Bytecode, err = decodeBytes("bytecode", r.Bytecode); err != nil {
		return params.PrepareDeploymentParams{}, err
	}
	if p.DeployerAddress, err = decodeAddress("deployer_address", r.DeployerAddress); err != nil {
		return params.PrepareDeploymentParams{}, err
	}
	if p.Salt, err = decodeHash("salt", r.Salt); err != nil {
		return params.PrepareDeploymentParams{}, err
	}
	return p, nil
}

// DeploymentDataRequest is the wire form of the signed deployment fields.
// Integers are decimal strings; bytecode is only needed when bytecode_hash
// is omitted.
type DeploymentDataRequest struct {
	Bytecode        string `json:"bytecode,omitempty"`
	BytecodeHash    string `json:"bytecode_hash,omitempty"`
	Salt            string `json:"salt,omitempty"`
	PaymentAmount   string `json:"payment_amount"`
	DeployerAddress string `json:"deployer_address"`
	Deadline        uint64 `json:"deadline"`
	Nonce           string `json:"nonce"`
	ChainID         int64  `json:"chain_id"`
}

// VerifySignatureRequest is the body of POST /signature/verify
type VerifySignatureRequest struct {
	DeploymentData DeploymentDataRequest `json:"deployment_data"`
	Signature      string                `json:"signature"`
}

// ToBusiness decodes the deployment data and signature
func (r VerifySignatureRequest) ToBusiness() (business.DeploymentData, []byte, error) {
	d := r.DeploymentData
	var data business.DeploymentData
	var err error

	if data.Bytecode, err = decodeBytes("bytecode", d.Bytecode); err != nil {
		return data, nil, err
	}
	hash, err := decodeHash("bytecode_hash", d.BytecodeHash)
	if err != nil {
		return data, nil, err
	}
	if hash != nil {
		data.BytecodeHash = *hash
	}
	if data.Salt, err = decodeHash("salt", d.Salt); err != nil {
		return data, nil, err
	}
	if data.PaymentAmount, err = decodeBigInt("payment_amount", d.PaymentAmount); err != nil {
		return data, nil, err
	}
	deployer, err := decodeAddress("deployer_address", d.DeployerAddress)
	if err != nil {
		return data, nil, err
	}
	if deployer != nil {
		data.DeployerAddress = *deployer
	}
	if data.Nonce, err = decodeBigInt("nonce", d.Nonce); err != nil {
		return data, nil, err
	}
	data.Deadline = d.Deadline
	data.ChainID = d.ChainID

	signature, err := decodeBytes("signature", r.Signature)
	if err != nil {
		return data, nil, err
	}
	return data, signature, nil
}

func invalidField(field, format string, args ...interface{}) *apperrors.Error {
	return apperrors.Newf(apperrors.CodeInvalidField, format, args...).
		WithDetails(apperrors.DetailFields, []string{field})
}

func decodeBytes(field, value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		value = "0x" + value
	}
	b, err := hexutil.Decode(value)
	if err != nil {
		return nil, invalidField(field, "%s must be 0x-prefixed hex: %v", field, err)
	}
	return b, nil
}

func decodeHash(field, value string) (*common.Hash, error) {
	b, err := decodeBytes(field, value)
	if err != nil || b == nil {
		return nil, err
	}
	if len(b) != common.HashLength {
		return nil, invalidField(field, "%s must be %d bytes, got %d", field, common.HashLength, len(b))
	}
	hash := common.BytesToHash(b)
	return &hash, nil
}

func decodeAddress(field, value string) (*common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if !common.IsHexAddress(value) {
		return nil, invalidField(field, "%s is not a valid address: %s", field, value)
	}
	address := common.HexToAddress(value)
	return &address, nil
}

func decodeBigInt(field, value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, invalidField(field, "%s must be a decimal integer, got %q", field, value)
	}
	return n, nil
}
