package business

import "math/big"

// ContractType discriminates the kind of contract being deployed
type ContractType string

const (
	ContractTypeToken   ContractType = "token"
	ContractTypeVesting ContractType = "vesting"
)

// IsSupported reports whether the contract type has a price
func (t ContractType) IsSupported() bool {
	switch t {
	case ContractTypeToken, ContractTypeVesting:
		return true
	default:
		return false
	}
}

// TokenFeature is one of the fixed basic token capabilities
type TokenFeature string

const (
	FeatureMintable  TokenFeature = "mintable"
	FeatureBurnable  TokenFeature = "burnable"
	FeaturePausable  TokenFeature = "pausable"
	FeatureBlacklist TokenFeature = "blacklist"
)

// BasicTokenFeatures lists the basic features in display order.
var BasicTokenFeatures = []TokenFeature{
	FeatureMintable,
	FeatureBurnable,
	FeaturePausable,
	FeatureBlacklist,
}

// ContractSpec is the caller-supplied description of what is being deployed.
type ContractSpec struct {
	ContractType ContractType `json:"contract_type"`

	// Token metadata
	TokenName     string   `json:"token_name,omitempty"`
	TokenSymbol   string   `json:"token_symbol,omitempty"`
	Decimals      *uint8   `json:"decimals,omitempty"`
	InitialSupply *big.Int `json:"initial_supply,omitempty"`

	// Basic features, priced as one bundle
	Mintable  bool `json:"mintable,omitempty"`
	Burnable  bool `json:"burnable,omitempty"`
	Pausable  bool `json:"pausable,omitempty"`
	Blacklist bool `json:"blacklist,omitempty"`

	// Advanced add-ons, priced when present and positive
	MaxTxAmount  *float64 `json:"max_tx_amount,omitempty"`
	TransferTax  *float64 `json:"transfer_tax,omitempty"`
	CooldownTime *float64 `json:"cooldown_time,omitempty"`

	ChainID           *int64 `json:"chain_id,omitempty"`
	IsChainSignatures bool   `json:"is_chain_signatures,omitempty"`
}

// HasFeature reports whether the given basic feature is enabled
func (s ContractSpec) HasFeature(feature TokenFeature) bool {
	switch feature {
	case FeatureMintable:
		return s.Mintable
	case FeatureBurnable:
		return s.Burnable
	case FeaturePausable:
		return s.Pausable
	case FeatureBlacklist:
		return s.Blacklist
	default:
		return false
	}
}

// SelectedBasicFeatures returns the enabled features of candidates, in the
// order given. A nil candidate list means BasicTokenFeatures.
func (s ContractSpec) SelectedBasicFeatures(candidates []TokenFeature) []TokenFeature {
	if candidates == nil {
		candidates = BasicTokenFeatures
	}
	var selected []TokenFeature
	for _, feature := range candidates {
		if s.HasFeature(feature) {
			selected = append(selected, feature)
		}
	}
	return selected
}
