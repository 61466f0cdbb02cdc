// Package testutil provides shared test helpers for setting up journal stores.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/folio/internal/journal"
	"github.com/starford/folio/internal/storage"
)

// TestProvider opens a storage backend in a temporary directory that is
// closed when the test ends.
func TestProvider(t *testing.T, backend string) storage.Provider {
	t.Helper()
	path := t.TempDir()
	if backend == storage.BackendSQLite {
		path += "/journal.db"
	}
	p, err := storage.Open(backend, path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

// TestLogger returns a logger that discards its output.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestJournal loads a journal over p and returns a navigator on its first
// page.
func TestJournal(t *testing.T, p storage.Provider) *journal.Navigator {
	t.Helper()
	s := journal.NewStore(p, journal.DefaultKey, TestLogger())
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	return journal.NewNavigator(s)
}
