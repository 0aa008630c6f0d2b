package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:4000/")
	require.NoError(t, err)

	url, err := store.Save("avatar.png", strings.NewReader("fake-png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:4000/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "fake-png-bytes", string(data))
}

func TestLocalStore_UniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:4000")
	require.NoError(t, err)

	first, err := store.Save("avatar.png", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save("avatar.png", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewLocalStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewLocalStore(dir, "http://localhost:4000")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
