package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionActiveEmpty(t *testing.T) {
	assert.False(t, tempSession(t).Active())
}

func TestSessionPutAndGet(t *testing.T) {
	s := tempSession(t)
	require.NoError(t, s.Put("w3dash.mywallet", "privatekey"))

	got, ok := s.Get("w3dash.mywallet")
	require.True(t, ok)
	assert.Equal(t, "privatekey", got)
	assert.True(t, s.Active())
}

func TestSessionGetMissing(t *testing.T) {
	_, ok := tempSession(t).Get("w3dash.nonexistent")
	assert.False(t, ok)
}

func TestSessionPutOverwrites(t *testing.T) {
	s := tempSession(t)
	require.NoError(t, s.Put("w3dash.wallet1", "firstkey"))
	require.NoError(t, s.Put("w3dash.wallet1", "secondkey"))

	got, _ := s.Get("w3dash.wallet1")
	assert.Equal(t, "secondkey", got)
}

func TestSessionSharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewSession(path).Put("w3dash.alice", "key_alice"))

	got, ok := NewSession(path).Get("w3dash.alice")
	require.True(t, ok)
	assert.Equal(t, "key_alice", got)
}

func TestSessionRemove(t *testing.T) {
	s := tempSession(t)
	require.NoError(t, s.Put("w3dash.target", "somekey"))
	require.NoError(t, s.Put("w3dash.other", "otherkey"))

	require.NoError(t, s.Remove("w3dash.target"))

	_, ok := s.Get("w3dash.target")
	assert.False(t, ok)
	_, ok = s.Get("w3dash.other")
	assert.True(t, ok, "unrelated key must survive")
}

func TestSessionRemoveMissing(t *testing.T) {
	s := tempSession(t)
	assert.NoError(t, s.Remove("w3dash.ghost"))
	assert.NoFileExists(t, s.Path(), "removing nothing does not create the file")
}

func TestSessionClear(t *testing.T) {
	s := tempSession(t)
	require.NoError(t, s.Put("w3dash.a", "ka"))

	require.NoError(t, s.Clear())
	assert.False(t, s.Active())
	assert.NoFileExists(t, s.Path())
	require.NoError(t, s.Clear(), "second clear must also succeed")
}

func TestSessionFilePermissions(t *testing.T) {
	s := NewSession(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, s.Put("w3dash.perm", "testkey"))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSessionCorruptFile(t *testing.T) {
	s := tempSession(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{corrupt:json"), 0o600))

	assert.False(t, s.Active())
	require.NoError(t, s.Put("w3dash.a", "ka"), "a corrupt file is replaced")
	got, _ := s.Get("w3dash.a")
	assert.Equal(t, "ka", got)
}

func TestDefaultSessionPath(t *testing.T) {
	path := DefaultSession().Path()
	assert.Equal(t, "session.json", filepath.Base(path))
	assert.Contains(t, path, "w3dash")
}
