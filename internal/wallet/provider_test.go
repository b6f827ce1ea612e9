package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(WithInMemoryStore(), WithKeystore(NewInMemoryKeystore()))
	_, err := m.AddWithKey("main", testPrivKeyHex)
	require.NoError(t, err)
	return m
}

// blockingKeystore never answers until release is closed.
type blockingKeystore struct {
	*InMemoryKeystore
	release chan struct{}
}

func (k *blockingKeystore) Retrieve(ref string) (string, error) {
	<-k.release
	return k.InMemoryKeystore.Retrieve(ref)
}

func TestProviderRequestAccounts(t *testing.T) {
	p := NewProvider(providerManager(t))

	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{testSignerAddr}, accounts)

	s, err := p.Signer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, s.Address())
}

func TestProviderSignerBeforeApproval(t *testing.T) {
	p := NewProvider(providerManager(t))
	_, err := p.Signer(context.Background())
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestProviderNamedWallet(t *testing.T) {
	m := providerManager(t)
	_, err := m.AddWithKey("second", otherPrivKeyHex)
	require.NoError(t, err)
	require.NoError(t, m.SetDefault("main"))

	accounts, err := NewProvider(m, WithWalletName("second")).RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{otherAddr}, accounts)
}

func TestProviderNoWallet(t *testing.T) {
	p := NewProvider(NewManager(WithInMemoryStore(), WithKeystore(NewInMemoryKeystore())))
	_, err := p.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, ErrNoWallet)
}

func TestProviderUnknownWallet(t *testing.T) {
	p := NewProvider(providerManager(t), WithWalletName("ghost"))
	_, err := p.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestProviderWatchOnly(t *testing.T) {
	m := NewManager(WithInMemoryStore(), WithKeystore(NewInMemoryKeystore()))
	require.NoError(t, m.Add("watch", &Wallet{Address: otherAddr}))

	_, err := NewProvider(m).RequestAccounts(context.Background())
	assert.ErrorIs(t, err, ErrWatchOnly)
}

func TestProviderMissingKey(t *testing.T) {
	m := NewManager(WithInMemoryStore(), WithKeystore(NewInMemoryKeystore()))
	require.NoError(t, m.Add("orphan", &Wallet{Address: testSignerAddr, Type: TypeSigning, KeyRef: "w3dash.orphan"}))

	_, err := NewProvider(m).RequestAccounts(context.Background())
	assert.ErrorContains(t, err, "unlocking orphan")
}

func TestProviderRequestAccountsCancelled(t *testing.T) {
	ks := &blockingKeystore{InMemoryKeystore: NewInMemoryKeystore(), release: make(chan struct{})}
	t.Cleanup(func() { close(ks.release) })

	m := NewManager(WithInMemoryStore(), WithKeystore(ks))
	_, err := m.AddWithKey("main", testPrivKeyHex)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewProvider(m)
	_, err = p.RequestAccounts(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = p.Signer(context.Background())
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestProviderSignerCancelledContext(t *testing.T) {
	p := NewProvider(providerManager(t))
	_, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Signer(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
