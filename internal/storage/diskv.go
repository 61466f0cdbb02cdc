package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"github.com/starford/folio/internal/apperr"
)

// Diskv implements Provider on top of a diskv store. Values are written
// through a temp directory so replacement is atomic.
type Diskv struct {
	d *diskv.Diskv
}

// NewDiskv creates a diskv-backed provider under dir.
func NewDiskv(dir string) (*Diskv, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	tmpDir := filepath.Join(abs, ".tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	d := diskv.New(diskv.Options{
		BasePath:     abs,
		TempDir:      tmpDir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})
	return &Diskv{d: d}, nil
}

// Read returns the value stored under key.
func (s *Diskv) Read(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", key, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Write replaces the value under key.
func (s *Diskv) Write(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; diskv holds no open handles between calls.
func (s *Diskv) Close() error { return nil }
