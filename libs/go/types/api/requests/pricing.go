package requests

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

// ContractSpecRequest is the wire form of a contract description.
// initial_supply may be sent as a JSON number or a decimal string.
type ContractSpecRequest struct {
	ContractType string `json:"contract_type"`

	TokenName     string      `json:"token_name,omitempty"`
	TokenSymbol   string      `json:"token_symbol,omitempty"`
	Decimals      *uint8      `json:"decimals,omitempty"`
	InitialSupply json.Number `json:"initial_supply,omitempty"`

	Mintable  bool `json:"mintable,omitempty"`
	Burnable  bool `json:"burnable,omitempty"`
	Pausable  bool `json:"pausable,omitempty"`
	Blacklist bool `json:"blacklist,omitempty"`

	MaxTxAmount  *float64 `json:"max_tx_amount,omitempty"`
	TransferTax  *float64 `json:"transfer_tax,omitempty"`
	CooldownTime *float64 `json:"cooldown_time,omitempty"`

	ChainID           *int64 `json:"chain_id,omitempty"`
	IsChainSignatures bool   `json:"is_chain_signatures,omitempty"`
}

// ToBusiness converts the request into a ContractSpec
func (r ContractSpecRequest) ToBusiness() (business.ContractSpec, error) {
	spec := business.ContractSpec{
		ContractType:      business.ContractType(strings.ToLower(strings.TrimSpace(r.ContractType))),
		TokenName:         r.TokenName,
		TokenSymbol:       r.TokenSymbol,
		Decimals:          r.Decimals,
		Mintable:          r.Mintable,
		Burnable:          r.Burnable,
		Pausable:          r.Pausable,
		Blacklist:         r.Blacklist,
		MaxTxAmount:       r.MaxTxAmount,
		TransferTax:       r.TransferTax,
		CooldownTime:      r.CooldownTime,
		ChainID:           r.ChainID,
		IsChainSignatures: r.IsChainSignatures,
	}

	if r.InitialSupply != "" {
		supply, ok := new(big.Int).SetString(r.InitialSupply.String(), 10)
		if !ok {
			return business.ContractSpec{}, apperrors.Newf(apperrors.CodeInvalidField,
				"initial_supply must be an integer, got %q", r.InitialSupply.String()).
				WithDetails(apperrors.DetailFields, []string{"initial_supply"})
		}
		spec.InitialSupply = supply
	}

	return spec, nil
}

// CalculatePriceRequest is the body of POST /calculate
type CalculatePriceRequest struct {
	ContractData ContractSpecRequest `json:"contract_data"`
	Network      string              `json:"network,omitempty"`
}

// EstimatePriceRequest is the body of POST /estimate. Features carries the
// feature flags and any token metadata the caller already knows.
type EstimatePriceRequest struct {
	ContractType string              `json:"contract_type"`
	Features     ContractSpecRequest `json:"features"`
	Network      string              `json:"network,omitempty"`
}

// ToBusiness merges the contract type into the feature set
func (r EstimatePriceRequest) ToBusiness() (business.ContractSpec, error) {
	features := r.Features
	features.ContractType = r.ContractType
	return features.ToBusiness()
}
