package rpc

import (
	"context"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
)

// HealthCheck pings one RPC. A node is healthy when it answers within
// config.RPCRequestTimeout and, when bestBlock > 0, is no more than a few
// blocks behind it.
func HealthCheck(ctx context.Context, url string, bestBlock uint64) (Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RPCRequestTimeout)
	defer cancel()

	latency, blockNum, err := chain.NewEVMClient(url).Ping(ctx)

	ep := Endpoint{
		URL:         url,
		Latency:     latency,
		BlockNumber: blockNum,
		Healthy:     err == nil && !isStale(blockNum, bestBlock),
		Checked:     true,
	}
	return ep, err
}
