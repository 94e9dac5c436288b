package business

// NetworkRecord describes one supported deployment network. Records are built
// once at startup and never mutated.
type NetworkRecord struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ChainID   int64  `json:"chain_id"`
	GasToken  string `json:"gas_token"`
	OracleID  string `json:"oracle_id"`
	IsTestnet bool   `json:"is_testnet"`
	RPCURL    string `json:"rpc_url,omitempty"`
}

// NetworkInfo is the lookup result for a chain id, supported or not
type NetworkInfo struct {
	Supported bool   `json:"supported"`
	ChainID   int64  `json:"chain_id"`
	Network   string `json:"network,omitempty"`
	GasToken  string `json:"gas_token,omitempty"`
	IsTestnet bool   `json:"is_testnet"`
	Key       string `json:"key,omitempty"`
	Message   string `json:"message,omitempty"`
}
