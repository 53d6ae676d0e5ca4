package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"AlbumGap/logger"
)

// ScanCache is the incremental-scan cache: a map of folder path to the
// modification time (float seconds since epoch) observed on the last scan.
// It is read once at scan start and rewritten wholesale at scan end; a crash
// mid-scan therefore leaves the previous cache intact.
type ScanCache struct {
	path    string
	entries map[string]float64
}

// LoadScanCache reads the cache file at path. A missing or unreadable file
// yields an empty cache; every folder will then be treated as changed.
func LoadScanCache(path string) *ScanCache {
	cache := &ScanCache{
		path:    path,
		entries: make(map[string]float64),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("scan cache unreadable, starting empty",
				logger.String("path", path), logger.ErrorField(err))
		}
		return cache
	}

	if err := json.Unmarshal(data, &cache.entries); err != nil {
		logger.Warn("scan cache corrupt, starting empty",
			logger.String("path", path), logger.ErrorField(err))
		cache.entries = make(map[string]float64)
	}
	return cache
}

// Mtime returns the cached modification time for a folder.
func (c *ScanCache) Mtime(folder string) (float64, bool) {
	mtime, ok := c.entries[folder]
	return mtime, ok
}

// Len returns the number of cached folders.
func (c *ScanCache) Len() int {
	return len(c.entries)
}

// Replace swaps in the full folder map of the current run. The previous
// contents are discarded; there is no partial merge.
func (c *ScanCache) Replace(entries map[string]float64) {
	c.entries = entries
}

// Save atomically persists the cache: the new content is written to a
// temporary file and renamed over the old one, so a failed write never
// leaves a half-written cache behind. A Save failure is fatal for the scan.
func (c *ScanCache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scan cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write scan cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace scan cache: %w", err)
	}
	return nil
}
