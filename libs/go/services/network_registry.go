package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

// DefaultNetworks returns the networks the service deploys to
func DefaultNetworks() []business.NetworkRecord {
	return []business.NetworkRecord{
		{Key: "arbitrum", Name: "Arbitrum", ChainID: 42161, GasToken: "ethereum", OracleID: "ethereum", RPCURL: "https://arb1.arbitrum.io/rpc"},
		{Key: "bsc", Name: "BSC", ChainID: 56, GasToken: "bnb", OracleID: "binancecoin", RPCURL: "https://bsc-dataseed.binance.org"},
		{Key: "hyperevm", Name: "HyperEVM", ChainID: 999, GasToken: "hyperliquid", OracleID: "hyperliquid", RPCURL: "https://hyperliquid.drpc.org"},
		{Key: "theta", Name: "Theta", ChainID: 361, GasToken: "tfuel", OracleID: "theta-fuel", RPCURL: "https://eth-rpc-api.thetatoken.org/rpc"},
		{Key: "aurora", Name: "Aurora", ChainID: 1313161554, GasToken: "ethereum", OracleID: "ethereum", RPCURL: "https://mainnet.aurora.dev"},
		{Key: "bsctestnet", Name: "BscTestnet", ChainID: 97, GasToken: "bnb", OracleID: "binancecoin", IsTestnet: true, RPCURL: "https://data-seed-prebsc-1-s1.binance.org:8545"},
		{Key: "auroratestnet", Name: "AuroraTestnet", ChainID: 1313161555, GasToken: "ethereum", OracleID: "ethereum", IsTestnet: true, RPCURL: "https://testnet.aurora.dev"},
		{Key: "thetatestnet", Name: "ThetaTestnet", ChainID: 365, GasToken: "tfuel", OracleID: "theta-fuel", IsTestnet: true, RPCURL: "https://eth-rpc-api-testnet.thetatoken.org/rpc"},
	}
}

// NetworkRegistry is an immutable index of supported networks. It is safe for
// concurrent use without locking.
type NetworkRegistry struct {
	records   []business.NetworkRecord
	byChainID map[int64]int
	byKey     map[string]int
	chainIDs  []int64
}

// NewNetworkRegistry indexes records by chain id and key. Keys are matched
// case-insensitively; duplicate keys or chain ids are rejected.
func NewNetworkRegistry(records []business.NetworkRecord) (*NetworkRegistry, error) {
	r := &NetworkRegistry{
		records:   make([]business.NetworkRecord, 0, len(records)),
		byChainID: make(map[int64]int, len(records)),
		byKey:     make(map[string]int, len(records)),
	}

	for _, record := range records {
		key := strings.ToLower(strings.TrimSpace(record.Key))
		if key == "" {
			return nil, fmt.Errorf("network %q has an empty key", record.Name)
		}
		if record.OracleID == "" {
			return nil, fmt.Errorf("network %s has no oracle id", key)
		}
		if _, exists := r.byKey[key]; exists {
			return nil, fmt.Errorf("duplicate network key %s", key)
		}
		if _, exists := r.byChainID[record.ChainID]; exists {
			return nil, fmt.Errorf("duplicate chain id %d", record.ChainID)
		}

		record.Key = key
		r.byKey[key] = len(r.records)
		r.byChainID[record.ChainID] = len(r.records)
		r.records = append(r.records, record)
		r.chainIDs = append(r.chainIDs, record.ChainID)
	}

	sort.Slice(r.chainIDs, func(i, j int) bool { return r.chainIDs[i] < r.chainIDs[j] })
	return r, nil
}

// NewDefaultNetworkRegistry builds the registry from DefaultNetworks
func NewDefaultNetworkRegistry() *NetworkRegistry {
	r, err := NewNetworkRegistry(DefaultNetworks())
	if err != nil {
		panic(fmt.Sprintf("invalid default network table: %v", err))
	}
	return r
}

// LookupByChainID returns the network for a chain id
func (r *NetworkRegistry) LookupByChainID(chainID int64) (business.NetworkRecord, bool) {
	idx, ok := r.byChainID[chainID]
	if !ok {
		return business.NetworkRecord{}, false
	}
	return r.records[idx], true
}

// LookupByKey returns the network for a key such as "bsc"
func (r *NetworkRegistry) LookupByKey(key string) (business.NetworkRecord, bool) {
	idx, ok := r.byKey[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return business.NetworkRecord{}, false
	}
	return r.records[idx], true
}

// AllChainIDs returns every supported chain id in ascending order
func (r *NetworkRegistry) AllChainIDs() []int64 {
	ids := make([]int64, len(r.chainIDs))
	copy(ids, r.chainIDs)
	return ids
}

// All returns every network in table order
func (r *NetworkRegistry) All() []business.NetworkRecord {
	records := make([]business.NetworkRecord, len(r.records))
	copy(records, r.records)
	return records
}

// Keys returns every network key in table order
func (r *NetworkRegistry) Keys() []string {
	keys := make([]string, len(r.records))
	for i, record := range r.records {
		keys[i] = record.Key
	}
	return keys
}

// NetworkInfo describes a chain id whether or not it is supported
func (r *NetworkRegistry) NetworkInfo(chainID int64) business.NetworkInfo {
	record, ok := r.LookupByChainID(chainID)
	if !ok {
		return business.NetworkInfo{
			Supported: false,
			ChainID:   chainID,
			Message:   fmt.Sprintf("Chain ID %d is not supported", chainID),
		}
	}
	return business.NetworkInfo{
		Supported: true,
		ChainID:   chainID,
		Network:   record.Name,
		GasToken:  record.GasToken,
		IsTestnet: record.IsTestnet,
		Key:       record.Key,
	}
}

// UnsupportedChainError reports an unknown chain id along with the supported set
func (r *NetworkRegistry) UnsupportedChainError(chainID int64) *apperrors.Error {
	return apperrors.Newf(apperrors.CodeNetworkNotSupported, "Chain ID %d is not supported", chainID).
		WithDetails(apperrors.DetailChainID, chainID).
		WithDetails(apperrors.DetailSupportedChainIDs, r.AllChainIDs())
}

// UnsupportedNetworkError reports an unknown network key along with the supported set
func (r *NetworkRegistry) UnsupportedNetworkError(key string) *apperrors.Error {
	return apperrors.Newf(apperrors.CodeNetworkNotSupported, "Network %s not supported", key).
		WithDetails(apperrors.DetailNetwork, key).
		WithDetails(apperrors.DetailSupportedNetworks, r.Keys()).
		WithDetails(apperrors.DetailSupportedChainIDs, r.AllChainIDs())
}
