// Package caching is a small file-based cache for downloaded assets.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores one file per key under a directory. A zero TTL never expires.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates the cache directory if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{path: path, ttl: ttl}, nil
}

// DefaultDir is the per-user temp location for name.
func DefaultDir(name string) string {
	return filepath.Join(os.TempDir(), name)
}

// key hashes the source URL into a filename; ext keeps the file type visible.
func (c *Cache) key(source string) string {
	hash := sha256.Sum256([]byte(source))
	return fmt.Sprintf("%x%s", hash, filepath.Ext(source))
}

// Path is where the entry for source lives, whether or not it exists yet.
func (c *Cache) Path(source string) string {
	return filepath.Join(c.path, c.key(source))
}

// Get returns the cached bytes for source if present and not expired.
func (c *Cache) Get(source string) ([]byte, bool) {
	filePath := c.Path(source)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	if info.Size() == 0 {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data for source.
func (c *Cache) Set(source string, data []byte) error {
	tmp, err := os.CreateTemp(c.path, ".part-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(source)); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
