package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Session caches unlocked keys in a 0600 file so a later process can sign
// without prompting the keychain again. `w3dash wallet lock` removes it.
type Session struct {
	mu   sync.Mutex
	path string
}

// NewSession returns a session cache stored at path.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// DefaultSession returns the per-user session cache.
//
//	macOS:   ~/Library/Caches/w3dash/session.json
//	Linux:   ~/.cache/w3dash/session.json
//	Windows: %LocalAppData%\w3dash\session.json
func DefaultSession() *Session {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return NewSession(filepath.Join(dir, keychainService, "session.json"))
}

// Path returns the session file location.
func (s *Session) Path() string { return s.path }

// Get returns a cached key for ref, or ("", false) if not cached.
func (s *Session) Get(ref string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.load()[ref]
	return v, ok
}

// Put caches a key for ref.
func (s *Session) Put(ref, hexKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	m[ref] = hexKey
	return s.save(m)
}

// Remove evicts a single key.
func (s *Session) Remove(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	if _, ok := m[ref]; !ok {
		return nil
	}
	delete(m, ref)
	return s.save(m)
}

// Clear removes all cached keys by deleting the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Active reports whether a non-empty session file exists.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load()) > 0
}

// load returns an empty map (never nil) on any error.
func (s *Session) load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return make(map[string]string)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]string)
	}
	return m
}

func (s *Session) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	return os.Chmod(s.path, 0o600)
}
