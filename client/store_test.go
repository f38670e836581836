package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expiry")
	s := NewFileStore(path)

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(1756555200))

	expiresAt, ok, err := s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1756555200), expiresAt)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear())
	_, ok, err = s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_CorruptRecordIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expiry")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0o600))

	_, ok, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ClearMissingIsNoop(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "expiry"))
	assert.NoError(t, s.Clear())
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(42))
	expiresAt, ok, err := s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), expiresAt)

	require.NoError(t, s.Clear())
	_, ok, _ = s.Load()
	assert.False(t, ok)
}
