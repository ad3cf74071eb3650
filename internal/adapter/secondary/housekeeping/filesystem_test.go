package housekeeping

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetKeychain(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, KeychainDir, "token")
	require.NoError(t, os.MkdirAll(filepath.Dir(secret), 0o755))
	require.NoError(t, os.WriteFile(secret, []byte("s"), 0o600))
	other := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))

	fs, err := NewFilesystem(dir)
	require.NoError(t, err)
	require.NoError(t, fs.ResetKeychain(context.Background()))

	_, err = os.Stat(secret)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(other)
	assert.NoError(t, err)
}

func TestCleanApp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cache", "x"), 0o755))

	fs, err := NewFilesystem(dir)
	require.NoError(t, err)
	require.NoError(t, fs.CleanApp(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	missing, err := NewFilesystem(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.NoError(t, missing.CleanApp(context.Background()))
}

func TestNewFilesystemRejectsRoot(t *testing.T) {
	_, err := NewFilesystem("")
	assert.Error(t, err)
	_, err = NewFilesystem("/")
	assert.Error(t, err)
}
