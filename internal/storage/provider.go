// Package storage provides the local key/value backends that hold the
// journal document. Each key maps to one opaque value written as a whole.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFS     = "fs"
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
)

// Provider is a local key/value store.
type Provider interface {
	// Read returns the value stored under key, or an error wrapping
	// apperr.ErrNotFound when the key has never been written.
	Read(key string) ([]byte, error)
	// Write replaces the value under key. A reader never observes a
	// partially written value.
	Write(key string, value []byte) error
	// Close releases the backend's resources.
	Close() error
}

// Open creates the Provider named by backend rooted at path. For fs and
// diskv path is a directory; for sqlite it is the database file.
func Open(backend, path string) (Provider, error) {
	switch backend {
	case BackendFS, "":
		return NewFS(path)
	case BackendDiskv:
		return NewDiskv(path)
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

// checkKey rejects keys that could escape a directory-backed store.
func checkKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage: empty key")
	}
	if strings.ContainsAny(key, `/\`) || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("storage: invalid key: %s", key)
	}
	return nil
}
