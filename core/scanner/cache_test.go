package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := LoadScanCache(path)
	assert.Equal(t, 0, cache.Len())

	cache.Replace(map[string]float64{
		"/music/artist/album": 1720000000.25,
		"/music/other/album":  1720000100.5,
	})
	require.NoError(t, cache.Save())

	reloaded := LoadScanCache(path)
	assert.Equal(t, 2, reloaded.Len())
	mtime, ok := reloaded.Mtime("/music/artist/album")
	assert.True(t, ok)
	assert.Equal(t, 1720000000.25, mtime)
}

func TestScanCacheReplaceOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := LoadScanCache(path)
	cache.Replace(map[string]float64{"/a": 1, "/b": 2})
	require.NoError(t, cache.Save())

	cache.Replace(map[string]float64{"/c": 3})
	require.NoError(t, cache.Save())

	reloaded := LoadScanCache(path)
	assert.Equal(t, 1, reloaded.Len())
	_, ok := reloaded.Mtime("/a")
	assert.False(t, ok)
}

func TestScanCacheCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	cache := LoadScanCache(path)
	assert.Equal(t, 0, cache.Len())
}

func TestScanCacheSaveFailureIsReported(t *testing.T) {
	// Parent "directory" is actually a file, so the save cannot proceed.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cache := LoadScanCache(filepath.Join(blocker, "cache.json"))
	cache.Replace(map[string]float64{"/a": 1})
	assert.Error(t, cache.Save())
}
