// Package storage owns the output directory: deterministic artifact names,
// atomic file writes and the CSV snapshots that hand data from the collector
// to the reporter.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Storage reads and writes artifacts below Dir.
type Storage struct {
	Dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// New creates the output directory if needed.
func New(dir string) (*Storage, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Storage{Dir: dir}, nil
}

// Path resolves an artifact name inside Dir.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// SaveFile writes content to name via a temp file and rename, so a reader
// never sees a half-written snapshot.
func (s *Storage) SaveFile(name string, content []byte) error {
	target := s.Path(name)
	tmp, err := os.CreateTemp(s.Dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("error saving file %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("error saving file %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving file %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("error saving file %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("error saving file %s: %w", name, err)
	}
	return nil
}

func (s *Storage) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", name, err)
	}
	return data, nil
}

func (s *Storage) HasFile(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Remove deletes name; a missing file is not an error.
func (s *Storage) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing file %s: %w", name, err)
	}
	return nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(name string) (*FileStats, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
