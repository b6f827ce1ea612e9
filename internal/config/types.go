package config

// Config holds all w3dash configuration.
type Config struct {
	TokenAddress  string   `json:"token_address"  mapstructure:"token_address"`
	RPCURLs       []string `json:"rpc_urls"       mapstructure:"rpc_urls"`
	RPCAlgorithm  string   `json:"rpc_algorithm"  mapstructure:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	DefaultWallet string   `json:"default_wallet" mapstructure:"default_wallet"`
	LogLevel      string   `json:"log_level"      mapstructure:"log_level"` // "debug" | "info" | "warn" | "error"

	// internal: config dir path used for Save()
	configDir string
}
