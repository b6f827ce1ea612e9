package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Mohsinsiddi/w3dash/internal/contract"
)

// ErrNotApproved is returned by Signer before RequestAccounts succeeded.
var ErrNotApproved = errors.New("no account approved")

// Provider grants the dashboard access to one wallet. RequestAccounts is the
// approval step: it unlocks the key, which may prompt the OS keychain.
type Provider struct {
	manager *Manager
	name    string

	mu       sync.Mutex
	approved *Signer
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithWalletName selects a wallet by name instead of the default one.
func WithWalletName(name string) ProviderOption {
	return func(p *Provider) { p.name = name }
}

// NewProvider creates a provider over the wallets in m.
func NewProvider(m *Manager, opts ...ProviderOption) *Provider {
	p := &Provider{manager: m}
	for _, o := range opts {
		o(p)
	}
	return p
}

// RequestAccounts unlocks the selected wallet and returns its address.
func (p *Provider) RequestAccounts(ctx context.Context) ([]string, error) {
	w, err := p.manager.Resolve(p.name)
	if err != nil {
		return nil, err
	}
	if !w.CanSign() {
		return nil, fmt.Errorf("%w: %s", ErrWatchOnly, w.Name)
	}

	key, err := p.unlock(ctx, w)
	if err != nil {
		return nil, err
	}

	signer, err := NewSigner(w, key)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.approved = signer
	p.mu.Unlock()

	return []string{signer.Address()}, nil
}

// Signer returns the signer approved by the last RequestAccounts call.
func (p *Provider) Signer(ctx context.Context) (contract.Signer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.approved == nil {
		return nil, ErrNotApproved
	}
	return p.approved, nil
}

// unlock retrieves the key, giving up when ctx ends. A keychain prompt left
// open keeps its goroutine until the user answers it.
func (p *Provider) unlock(ctx context.Context, w *Wallet) (string, error) {
	type result struct {
		key string
		err error
	}
	done := make(chan result, 1)
	ks := p.manager.Keystore()
	go func() {
		key, err := ks.Retrieve(w.KeyRef)
		done <- result{key, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("unlocking %s: %w", w.Name, r.err)
		}
		return r.key, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
