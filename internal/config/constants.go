package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
// These are conservative upper bounds; actual gas used will be lower.
const (
	GasLimitERC20Transfer = uint64(60_000) // ERC-20 transfer
)

// Timeout constants used across cmd.
const (
	RPCSelectTimeout  = 10 * time.Second // endpoint benchmark / RPC selection
	RPCRequestTimeout = 15 * time.Second // single JSON-RPC round trip
)

// Environment variables read besides the W3DASH_<KEY> overrides.
const (
	EnvPrefix    = "W3DASH"
	EnvConfigDir = "W3DASH_CONFIG_DIR"
)
