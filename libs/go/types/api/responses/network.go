package responses

import "github.com/mintroai/payment-service/libs/go/types/business"

// NetworkResponse is one entry of the network listing
type NetworkResponse struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ChainID   int64  `json:"chain_id"`
	GasToken  string `json:"gas_token"`
	IsTestnet bool   `json:"is_testnet"`
}

// NewNetworkResponse converts a registry record, omitting the oracle and RPC wiring
func NewNetworkResponse(n business.NetworkRecord) NetworkResponse {
	return NetworkResponse{
		Key:       n.Key,
		Name:      n.Name,
		ChainID:   n.ChainID,
		GasToken:  n.GasToken,
		IsTestnet: n.IsTestnet,
	}
}

// NewNetworkListResponse converts registry records in order
func NewNetworkListResponse(records []business.NetworkRecord) []NetworkResponse {
	list := make([]NetworkResponse, 0, len(records))
	for _, n := range records {
		list = append(list, NewNetworkResponse(n))
	}
	return list
}
