package wallet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const (
	keychainService = "w3dash"

	// EnvKey, when set, supplies the private key for every signing wallet.
	// Meant for CI and throwaway test accounts.
	EnvKey = "W3DASH_KEY"
)

// ErrKeystoreUnavailable is returned when no keychain could be opened.
var ErrKeystoreUnavailable = errors.New("keystore not available")

// KeystoreBackend stores private keys by reference.
type KeystoreBackend interface {
	Store(name, hexKey string) (ref string, err error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
}

// sessionCache holds keys unlocked by this process.
var sessionCache sync.Map

// Keystore wraps OS keychain access. Retrieve consults, in order, the
// W3DASH_KEY variable, keys unlocked by this process, the session file,
// then the keychain (which may prompt the user).
type Keystore struct {
	ring    keyring.Keyring
	session *Session
}

// KeystoreOption configures a Keystore.
type KeystoreOption func(*Keystore)

// WithSession overrides the session cache file. nil disables it.
func WithSession(s *Session) KeystoreOption {
	return func(k *Keystore) { k.session = s }
}

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore(opts ...KeystoreOption) *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		// Use file backend as ultimate fallback.
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
	}

	return newKeystore(ring, opts...)
}

// OpenFileKeystore returns a keystore using an encrypted file keyring in dir.
func OpenFileKeystore(dir, password string, opts ...KeystoreOption) (*Keystore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      keychainService,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: keyring.FixedStringPrompt(password),
	})
	if err != nil {
		return nil, fmt.Errorf("opening file keyring: %w", err)
	}
	return newKeystore(ring, opts...), nil
}

func newKeystore(ring keyring.Keyring, opts ...KeystoreOption) *Keystore {
	k := &Keystore{ring: ring, session: DefaultSession()}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Store saves a private key for a wallet name and returns a reference key.
func (k *Keystore) Store(name, hexKey string) (string, error) {
	ref := keyRef(name)
	if k.ring == nil {
		return "", ErrKeystoreUnavailable
	}
	err := k.ring.Set(keyring.Item{
		Key:         ref,
		Data:        []byte(normaliseHexKey(hexKey)),
		Label:       "w3dash wallet " + name,
		Description: "EVM private key",
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Retrieve fetches a private key by its reference.
func (k *Keystore) Retrieve(ref string) (string, error) {
	if env := os.Getenv(EnvKey); env != "" {
		return normaliseHexKey(env), nil
	}

	if v, ok := sessionCache.Load(ref); ok {
		return v.(string), nil
	}

	if k.session != nil {
		if v, ok := k.session.Get(ref); ok {
			sessionCache.Store(ref, v)
			return v, nil
		}
	}

	if k.ring == nil {
		return "", ErrKeystoreUnavailable
	}
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	key := string(item.Data)
	sessionCache.Store(ref, key)
	return key, nil
}

// Unlock retrieves the key for ref and writes it to the session file so
// later processes skip the keychain prompt.
func (k *Keystore) Unlock(ref string) error {
	key, err := k.Retrieve(ref)
	if err != nil {
		return err
	}
	if k.session == nil {
		return nil
	}
	return k.session.Put(ref, key)
}

// Delete removes a stored key from the keychain and every cache.
func (k *Keystore) Delete(ref string) error {
	sessionCache.Delete(ref)
	if k.session != nil {
		if err := k.session.Remove(ref); err != nil {
			return err
		}
	}
	if k.ring == nil {
		return nil
	}
	err := k.ring.Remove(ref)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// Lock forgets every key unlocked by this process and clears the session file.
func (k *Keystore) Lock() error {
	sessionCache.Range(func(key, _ any) bool {
		sessionCache.Delete(key)
		return true
	})
	if k.session == nil {
		return nil
	}
	return k.session.Clear()
}

func keyRef(name string) string { return keychainService + "." + name }

// normaliseHexKey trims whitespace and any 0x prefix.
func normaliseHexKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

// InMemoryKeystore stores keys in memory (for tests).
type InMemoryKeystore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewInMemoryKeystore creates an in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Store(name, hexKey string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ref := keyRef(name)
	k.data[ref] = hexKey
	return ref, nil
}

func (k *InMemoryKeystore) Retrieve(ref string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.data[ref]
	if !ok {
		return "", fmt.Errorf("key not found: %s", ref)
	}
	return v, nil
}

func (k *InMemoryKeystore) Delete(ref string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, ref)
	return nil
}
