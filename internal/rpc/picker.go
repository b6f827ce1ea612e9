// Package rpc chooses which JSON-RPC endpoint the dashboard talks to.
package rpc

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
	// Cache the fastest winner for this long before scoring again.
	cacheTTL = 5 * time.Minute
)

var algorithms = []Algorithm{AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover}

// ParseAlgorithm maps a config value to an Algorithm. Empty means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return AlgorithmFastest, nil
	}
	a := Algorithm(s)
	if !slices.Contains(algorithms, a) {
		return "", fmt.Errorf("unknown RPC algorithm %q", s)
	}
	return a, nil
}

// Endpoint is one RPC URL with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool // meaningful only when Checked == true
	Checked     bool // true once the endpoint has been pinged
}

// Picker selects an endpoint according to its algorithm. A Picker keeps
// round-robin position and the cached fastest winner between calls.
type Picker struct {
	algo Algorithm

	mu          sync.Mutex
	rrIndex     int
	cachedURL   string
	cacheExpiry time.Time
	onScore     func()
	now         func() time.Time
}

// NewPicker creates a Picker using algo.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo, now: time.Now}
}

// Algorithm returns the selection algorithm.
func (p *Picker) Algorithm() Algorithm { return p.algo }

// OnScore registers a hook called every time the fastest algorithm scores
// endpoints instead of answering from its cache.
func (p *Picker) OnScore(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onScore = fn
}

// Pick selects an endpoint from the provided list.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmRoundRobin:
		return p.pickRoundRobin(endpoints)
	case AlgorithmFailover:
		return pickFailover(endpoints)
	default:
		return p.pickFastest(endpoints)
	}
}

func (p *Picker) pickFastest(endpoints []Endpoint) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cachedURL != "" && p.now().Before(p.cacheExpiry) {
		for i := range endpoints {
			e := &endpoints[i]
			if e.URL == p.cachedURL && (!e.Checked || e.Healthy) {
				return e, nil
			}
		}
	}

	if p.onScore != nil {
		p.onScore()
	}

	candidates := healthyEndpoints(endpoints)
	if len(candidates) == 0 {
		return nil, ErrNoHealthyRPC
	}

	// Only healthy nodes count towards the chain head.
	var bestBlock uint64
	for _, e := range candidates {
		bestBlock = max(bestBlock, e.BlockNumber)
	}

	var winner *Endpoint
	var bestScore float64
	for _, e := range candidates {
		if isStale(e.BlockNumber, bestBlock) {
			continue
		}
		s := score(e, bestBlock)
		if winner == nil || s > bestScore {
			winner, bestScore = e, s
		}
	}

	if winner == nil {
		return nil, ErrNoHealthyRPC
	}

	p.cachedURL = winner.URL
	p.cacheExpiry = p.now().Add(cacheTTL)
	return winner, nil
}

func (p *Picker) pickRoundRobin(endpoints []Endpoint) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	healthy := healthyEndpoints(endpoints)
	if len(healthy) == 0 {
		return nil, ErrNoHealthyRPC
	}

	idx := p.rrIndex % len(healthy)
	p.rrIndex = (idx + 1) % len(healthy)
	return healthy[idx], nil
}

// pickFailover returns the first endpoint not known to be down.
func pickFailover(endpoints []Endpoint) (*Endpoint, error) {
	for i := range endpoints {
		e := &endpoints[i]
		if e.Checked && !e.Healthy {
			continue
		}
		return e, nil
	}
	return nil, ErrNoHealthyRPC
}

// --- scoring ---

func isStale(block, best uint64) bool {
	return best > 0 && best > block && best-block > staleBlockThreshold
}

// score favours low latency, then recency. Higher is better.
func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64
	if e.Latency > 0 {
		s += 1.0 / e.Latency.Seconds()
	}
	if bestBlock > 0 && bestBlock >= e.BlockNumber {
		s += float64(staleBlockThreshold+1) - float64(bestBlock-e.BlockNumber)
	}
	return s
}

// healthyEndpoints returns the endpoints eligible for selection. When none
// has been checked, every endpoint is a candidate.
func healthyEndpoints(endpoints []Endpoint) []*Endpoint {
	anyChecked := slices.ContainsFunc(endpoints, func(e Endpoint) bool { return e.Checked })

	var out []*Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !anyChecked || !e.Checked || e.Healthy {
			out = append(out, e)
		}
	}
	return out
}
