package rpc

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
)

// Selector benchmarks a fixed list of URLs and picks one per call.
type Selector struct {
	urls   []string
	picker *Picker
	opts   []chain.ClientOption
	logger *log.Logger
}

// NewSelector validates algorithm and returns a Selector over urls.
func NewSelector(urls []string, algorithm string, logger *log.Logger, opts ...chain.ClientOption) (*Selector, error) {
	algo, err := ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Selector{
		urls:   urls,
		picker: NewPicker(algo),
		opts:   opts,
		logger: logger,
	}, nil
}

// Select pings the endpoints, bounded by config.RPCSelectTimeout, and returns
// the chosen URL. A single URL is returned without a round trip.
func (s *Selector) Select(ctx context.Context) (string, error) {
	switch len(s.urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return s.urls[0], nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()

	results := Benchmark(ctx, s.urls, s.opts...)
	for _, r := range results {
		if r.Err != nil {
			s.logger.Debug("rpc unreachable", "url", r.URL, "err", r.Err)
			continue
		}
		s.logger.Debug("rpc ping", "url", r.URL, "latency", r.Latency, "block", r.BlockNumber)
	}

	winner, err := s.picker.Pick(ResultsToEndpoints(results))
	if err != nil {
		return "", err
	}
	s.logger.Info("rpc selected", "url", winner.URL, "algorithm", s.picker.Algorithm())
	return winner.URL, nil
}

// Select is a one-shot Selector run.
func Select(ctx context.Context, urls []string, algorithm string, logger *log.Logger) (string, error) {
	s, err := NewSelector(urls, algorithm, logger)
	if err != nil {
		return "", err
	}
	return s.Select(ctx)
}
