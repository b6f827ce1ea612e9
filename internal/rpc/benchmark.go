package rpc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

// maxParallelPings bounds concurrent pings during a benchmark.
const maxParallelPings = 8

// BenchmarkResult holds the result of a single endpoint ping.
type BenchmarkResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Benchmark pings every URL in parallel. Results keep the order of urls.
func Benchmark(ctx context.Context, urls []string, opts ...chain.ClientOption) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))

	var g errgroup.Group
	g.SetLimit(maxParallelPings)
	for i, url := range urls {
		g.Go(func() error {
			latency, block, err := chain.NewEVMClient(url, opts...).Ping(ctx)
			results[i] = BenchmarkResult{URL: url, Latency: latency, BlockNumber: block, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ResultsToEndpoints converts benchmark results to picker Endpoints.
// Every returned endpoint is Checked.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			Healthy:     r.Err == nil,
			Checked:     true,
		})
	}
	return endpoints
}
