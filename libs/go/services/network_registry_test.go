package services_test

import (
	"errors"
	"testing"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/services"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNetworkRegistry(t *testing.T) {
	tests := []struct {
		name    string
		records []business.NetworkRecord
		wantErr bool
	}{
		{
			name:    "default table",
			records: services.DefaultNetworks(),
		},
		{
			name: "duplicate key differing in case",
			records: []business.NetworkRecord{
				{Key: "bsc", ChainID: 56, OracleID: "binancecoin"},
				{Key: "BSC", ChainID: 57, OracleID: "binancecoin"},
			},
			wantErr: true,
		},
		{
			name: "duplicate chain id",
			records: []business.NetworkRecord{
				{Key: "bsc", ChainID: 56, OracleID: "binancecoin"},
				{Key: "bnb", ChainID: 56, OracleID: "binancecoin"},
			},
			wantErr: true,
		},
		{
			name:    "empty key",
			records: []business.NetworkRecord{{Name: "Nameless", ChainID: 1, OracleID: "ethereum"}},
			wantErr: true,
		},
		{
			name:    "missing oracle id",
			records: []business.NetworkRecord{{Key: "eth", ChainID: 1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := services.NewNetworkRegistry(tt.records)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, registry)
				return
			}
			require.NoError(t, err)
			assert.Len(t, registry.All(), len(tt.records))
		})
	}
}

func TestNetworkRegistry_Lookups(t *testing.T) {
	registry := services.NewDefaultNetworkRegistry()

	t.Run("chain id and key resolve to the same record", func(t *testing.T) {
		for _, record := range registry.All() {
			byChain, ok := registry.LookupByChainID(record.ChainID)
			require.True(t, ok)
			byKey, ok := registry.LookupByKey(record.Key)
			require.True(t, ok)
			assert.Equal(t, byChain, byKey)
		}
	})

	t.Run("known chain id", func(t *testing.T) {
		record, ok := registry.LookupByChainID(97)
		require.True(t, ok)
		assert.Equal(t, "bsctestnet", record.Key)
		assert.Equal(t, "BscTestnet", record.Name)
		assert.Equal(t, "binancecoin", record.OracleID)
		assert.True(t, record.IsTestnet)
	})

	t.Run("key lookup is case insensitive", func(t *testing.T) {
		record, ok := registry.LookupByKey("  HyperEVM ")
		require.True(t, ok)
		assert.Equal(t, int64(999), record.ChainID)
	})

	t.Run("absence is not an error", func(t *testing.T) {
		_, ok := registry.LookupByChainID(1)
		assert.False(t, ok)
		_, ok = registry.LookupByKey("ethereum")
		assert.False(t, ok)
	})

	t.Run("chain ids are sorted", func(t *testing.T) {
		assert.Equal(t, []int64{56, 97, 361, 365, 999, 42161, 1313161554, 1313161555}, registry.AllChainIDs())
	})

	t.Run("keys keep table order", func(t *testing.T) {
		assert.Equal(t, []string{"arbitrum", "bsc", "hyperevm", "theta", "aurora", "bsctestnet", "auroratestnet", "thetatestnet"}, registry.Keys())
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		ids := registry.AllChainIDs()
		ids[0] = -1
		assert.Equal(t, int64(56), registry.AllChainIDs()[0])
	})
}

func TestNetworkRegistry_NetworkInfo(t *testing.T) {
	registry := services.NewDefaultNetworkRegistry()

	info := registry.NetworkInfo(1313161555)
	assert.True(t, info.Supported)
	assert.Equal(t, "AuroraTestnet", info.Network)
	assert.Equal(t, "ethereum", info.GasToken)
	assert.Equal(t, "auroratestnet", info.Key)
	assert.True(t, info.IsTestnet)

	info = registry.NetworkInfo(1)
	assert.False(t, info.Supported)
	assert.Equal(t, int64(1), info.ChainID)
	assert.Equal(t, "Chain ID 1 is not supported", info.Message)
}

func TestNetworkRegistry_UnsupportedChainError(t *testing.T) {
	registry := services.NewDefaultNetworkRegistry()

	err := registry.UnsupportedChainError(1)
	assert.True(t, errors.Is(err, apperrors.ErrNetworkNotSupported))
	assert.Equal(t, registry.AllChainIDs(), err.Details[apperrors.DetailSupportedChainIDs])
	assert.Equal(t, int64(1), err.Details[apperrors.DetailChainID])
}
