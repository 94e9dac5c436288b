package responses

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

// DeploymentDataResponse is the wire form of the signed deployment fields.
// Integers are decimal strings; bytes are 0x-hex.
type DeploymentDataResponse struct {
	Bytecode        string `json:"bytecode,omitempty"`
	BytecodeHash    string `json:"bytecode_hash"`
	Salt            string `json:"salt,omitempty"`
	PaymentAmount   string `json:"payment_amount"`
	DeployerAddress string `json:"deployer_address"`
	Deadline        uint64 `json:"deadline"`
	Nonce           string `json:"nonce"`
	ChainID         int64  `json:"chain_id"`
}

// NewDeploymentDataResponse converts signed deployment data
func NewDeploymentDataResponse(d business.DeploymentData) DeploymentDataResponse {
	resp := DeploymentDataResponse{
		BytecodeHash:    d.BytecodeHash.Hex(),
		DeployerAddress: d.DeployerAddress.Hex(),
		Deadline:        d.Deadline,
		ChainID:         d.ChainID,
	}
	if len(d.Bytecode) > 0 {
		resp.Bytecode = hexutil.Encode(d.Bytecode)
	}
	if d.Salt != nil {
		resp.Salt = d.Salt.Hex()
	}
	if d.PaymentAmount != nil {
		resp.PaymentAmount = d.PaymentAmount.String()
	}
	if d.Nonce != nil {
		resp.Nonce = d.Nonce.String()
	}
	return resp
}

// PreparedNetwork identifies the network a deployment was priced on
type PreparedNetwork struct {
	Name     string `json:"name"`
	ChainID  int64  `json:"chain_id"`
	GasToken string `json:"gas_token"`
}

// PrepareDeploymentResponse is returned by POST /signature/prepare
type PrepareDeploymentResponse struct {
	Signature      string                 `json:"signature"`
	DeploymentData DeploymentDataResponse `json:"deployment_data"`
	Pricing        business.PricingResult `json:"pricing"`
	TxValue        string                 `json:"tx_value"`
	Network        PreparedNetwork        `json:"network"`
	Signer         string                 `json:"signer"`
}

// NewPrepareDeploymentResponse converts a prepared deployment
func NewPrepareDeploymentResponse(p *business.PreparedDeployment) PrepareDeploymentResponse {
	auth := p.Authorization
	return PrepareDeploymentResponse{
		Signature:      hexutil.Encode(auth.Signature),
		DeploymentData: NewDeploymentDataResponse(auth.Data),
		Pricing:        p.Pricing,
		TxValue:        auth.TxValue.String(),
		Network: PreparedNetwork{
			Name:     p.Network.Key,
			ChainID:  p.Network.ChainID,
			GasToken: p.Network.GasToken,
		},
		Signer: auth.Signer.Hex(),
	}
}

// VerifySignatureResponse is returned by POST /signature/verify
type VerifySignatureResponse struct {
	Valid     bool   `json:"valid"`
	Recovered string `json:"recovered,omitempty"`
	Signer    string `json:"signer"`
}

// NewVerifySignatureResponse converts a verification result
func NewVerifySignatureResponse(r *business.VerificationResult) VerifySignatureResponse {
	resp := VerifySignatureResponse{
		Valid:  r.Valid,
		Signer: r.Signer.Hex(),
	}
	if r.Recovered != (common.Address{}) {
		resp.Recovered = r.Recovered.Hex()
	}
	return resp
}

// SignerInfoResponse is returned by GET /signature/signer
type SignerInfoResponse struct {
	Address string `json:"address"`
	Ready   bool   `json:"ready"`
}

// NewSignerInfoResponse converts signer info
func NewSignerInfoResponse(info business.SignerInfo) SignerInfoResponse {
	return SignerInfoResponse{Address: info.Address.Hex(), Ready: info.Ready}
}
