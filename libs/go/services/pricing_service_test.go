package services_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/services"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }
func uint8Ptr(v uint8) *uint8       { return &v }

func mainnet() *business.NetworkRecord {
	return &business.NetworkRecord{Key: "bsc", Name: "BSC", ChainID: 56, GasToken: "bnb", OracleID: "binancecoin"}
}

func testnet() *business.NetworkRecord {
	return &business.NetworkRecord{Key: "bsctestnet", Name: "BscTestnet", ChainID: 97, GasToken: "bnb", OracleID: "binancecoin", IsTestnet: true}
}

func TestPricingService_Price(t *testing.T) {
	service := services.NewPricingService(services.DefaultFeeSchedule())

	tests := []struct {
		name          string
		spec          business.ContractSpec
		network       *business.NetworkRecord
		wantTotal     float64
		wantItems     []string
		wantFree      string
		wantBasicList []business.TokenFeature
	}{
		{
			name:      "token with no features costs the base fee",
			spec:      business.ContractSpec{ContractType: business.ContractTypeToken},
			network:   mainnet(),
			wantTotal: 0,
			wantItems: []string{},
		},
		{
			name:          "basic features are charged once",
			spec:          business.ContractSpec{ContractType: business.ContractTypeToken, Mintable: true, Burnable: true, Pausable: true, Blacklist: true},
			network:       mainnet(),
			wantTotal:     50,
			wantItems:     []string{"Basic Features"},
			wantBasicList: []business.TokenFeature{business.FeatureMintable, business.FeatureBurnable, business.FeaturePausable, business.FeatureBlacklist},
		},
		{
			name:          "single basic feature",
			spec:          business.ContractSpec{ContractType: business.ContractTypeToken, Pausable: true},
			network:       nil,
			wantTotal:     50,
			wantItems:     []string{"Basic Features"},
			wantBasicList: []business.TokenFeature{business.FeaturePausable},
		},
		{
			name: "add-ons are additive",
			spec: business.ContractSpec{
				ContractType: business.ContractTypeToken,
				Mintable:     true,
				MaxTxAmount:  float64Ptr(1000),
				TransferTax:  float64Ptr(2.5),
				CooldownTime: float64Ptr(30),
			},
			network:       mainnet(),
			wantTotal:     110,
			wantItems:     []string{"Basic Features", "Max Transaction Limit", "Transfer Tax", "Anti-Bot Protection"},
			wantBasicList: []business.TokenFeature{business.FeatureMintable},
		},
		{
			name: "zero and negative add-ons are not charged",
			spec: business.ContractSpec{
				ContractType: business.ContractTypeToken,
				MaxTxAmount:  float64Ptr(0),
				TransferTax:  float64Ptr(-1),
			},
			network:   mainnet(),
			wantTotal: 0,
			wantItems: []string{},
		},
		{
			name:      "vesting is flat",
			spec:      business.ContractSpec{ContractType: business.ContractTypeVesting, Mintable: true, MaxTxAmount: float64Ptr(5)},
			network:   mainnet(),
			wantTotal: 100,
			wantItems: []string{},
		},
		{
			name:      "chain signatures are free",
			spec:      business.ContractSpec{ContractType: business.ContractTypeToken, Mintable: true, CooldownTime: float64Ptr(10), IsChainSignatures: true},
			network:   mainnet(),
			wantTotal: 0,
			wantItems: []string{},
			wantFree:  "Chain Signatures deployment",
		},
		{
			name:      "testnet is free",
			spec:      business.ContractSpec{ContractType: business.ContractTypeVesting},
			network:   testnet(),
			wantTotal: 0,
			wantItems: []string{},
			wantFree:  "Testnet deployment",
		},
		{
			name:      "both exemptions are reported",
			spec:      business.ContractSpec{ContractType: business.ContractTypeToken, Burnable: true, IsChainSignatures: true},
			network:   testnet(),
			wantTotal: 0,
			wantItems: []string{},
			wantFree:  "Chain Signatures deployment + Testnet deployment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown, err := service.Price(tt.spec, tt.network)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, breakdown.Total)
			assert.Equal(t, tt.wantFree, breakdown.FreeReason)
			assert.Equal(t, tt.wantFree != "", breakdown.IsFree())

			names := make([]string, 0, len(breakdown.Features))
			for _, item := range breakdown.Features {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.wantItems, names)

			if tt.wantBasicList != nil {
				assert.Equal(t, tt.wantBasicList, breakdown.Features[0].Features)
			}

			sum := breakdown.Base
			for _, item := range breakdown.Features {
				sum += item.Price
			}
			assert.Equal(t, breakdown.Total, sum)
		})
	}
}

func TestPricingService_Price_ContractTypeCheckedFirst(t *testing.T) {
	service := services.NewPricingService(services.DefaultFeeSchedule())

	_, err := service.Price(business.ContractSpec{IsChainSignatures: true}, testnet())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidContractSpec))

	_, err = service.Price(business.ContractSpec{ContractType: "nft", IsChainSignatures: true}, testnet())
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedContractType))
}

func TestPricingService_CustomSchedule(t *testing.T) {
	fees := services.DefaultFeeSchedule()
	fees.TokenBase = 5
	fees.BasicFeatureFee = 7
	service := services.NewPricingService(fees)

	breakdown, err := service.Price(business.ContractSpec{ContractType: business.ContractTypeToken, Blacklist: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(12), breakdown.Total)
}

func TestPricingService_Validate(t *testing.T) {
	service := services.NewPricingService(services.DefaultFeeSchedule())

	valid := business.ContractSpec{
		ContractType:  business.ContractTypeToken,
		TokenName:     "Mintro",
		TokenSymbol:   "MNT",
		Decimals:      uint8Ptr(18),
		InitialSupply: big.NewInt(1000),
	}

	tests := []struct {
		name       string
		mutate     func(s *business.ContractSpec)
		wantCode   apperrors.Code
		wantFields []string
	}{
		{name: "valid token", mutate: func(s *business.ContractSpec) {}},
		{name: "zero decimals are present", mutate: func(s *business.ContractSpec) { s.Decimals = uint8Ptr(0) }},
		{name: "vesting needs no token fields", mutate: func(s *business.ContractSpec) { *s = business.ContractSpec{ContractType: business.ContractTypeVesting} }},
		{
			name:       "missing contract type",
			mutate:     func(s *business.ContractSpec) { s.ContractType = "" },
			wantCode:   apperrors.CodeInvalidContractSpec,
			wantFields: []string{"contract_type"},
		},
		{
			name:     "unsupported contract type",
			mutate:   func(s *business.ContractSpec) { s.ContractType = "staking" },
			wantCode: apperrors.CodeUnsupportedContractType,
		},
		{
			name: "all missing fields are enumerated",
			mutate: func(s *business.ContractSpec) {
				*s = business.ContractSpec{ContractType: business.ContractTypeToken}
			},
			wantCode:   apperrors.CodeInvalidContractSpec,
			wantFields: []string{"token_name", "token_symbol", "decimals", "initial_supply"},
		},
		{
			name:       "blank symbol",
			mutate:     func(s *business.ContractSpec) { s.TokenSymbol = "   " },
			wantCode:   apperrors.CodeInvalidContractSpec,
			wantFields: []string{"token_symbol"},
		},
		{
			name:       "zero initial supply",
			mutate:     func(s *business.ContractSpec) { s.InitialSupply = big.NewInt(0) },
			wantCode:   apperrors.CodeInvalidContractSpec,
			wantFields: []string{"initial_supply"},
		},
		{
			name: "missing field and non-positive supply are reported together",
			mutate: func(s *business.ContractSpec) {
				s.TokenName = ""
				s.InitialSupply = big.NewInt(0)
			},
			wantCode:   apperrors.CodeInvalidContractSpec,
			wantFields: []string{"token_name", "initial_supply"},
		},
		{
			name:       "negative initial supply",
			mutate:     func(s *business.ContractSpec) { s.InitialSupply = big.NewInt(-5) },
			wantCode:   apperrors.CodeInvalidContractSpec,
			wantFields: []string{"initial_supply"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.mutate(&spec)

			err := service.Validate(spec)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, appErr.Details[apperrors.DetailFields])
			}
		})
	}
}

func TestPricingService_Schedule(t *testing.T) {
	schedule := services.NewPricingService(services.DefaultFeeSchedule()).Schedule()

	assert.Equal(t, float64(50), schedule.Token.Basic.Price)
	assert.Len(t, schedule.Token.Basic.Features, 4)
	assert.Equal(t, float64(20), schedule.Token.Advanced["max_tx"].Price)
	assert.Equal(t, float64(20), schedule.Token.Advanced["transfer_tax"].Price)
	assert.Equal(t, float64(20), schedule.Token.Advanced["anti_bot"].Price)
	assert.Equal(t, float64(100), schedule.Vesting.Base)
}
