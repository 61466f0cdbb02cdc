package internal

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/journal"
	"github.com/starford/folio/internal/storage"
)

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, contact.Submission) (contact.Receipt, error) {
	return contact.Receipt{ID: "test"}, nil
}

func testConfig(t *testing.T, backend string) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Journal.Backend = backend
	cfg.Journal.Path = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
	if err := RunExport(context.Background(), "", "Journal"); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRun_RequiresMailCredentials(t *testing.T) {
	cfg := NewDefaultConfig()
	err := Run(context.Background(), WithConfig(cfg), WithLogWriter(io.Discard))
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected missing api key error, got %v", err)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, WithConfig(cfg), WithDispatcher(nopDispatcher{}), WithLogWriter(io.Discard))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunExport(t *testing.T) {
	for _, backend := range []string{storage.BackendFS, storage.BackendDiskv, storage.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			path, err := cfg.Journal.StoragePath()
			if err != nil {
				t.Fatal(err)
			}
			p, err := storage.Open(backend, path)
			if err != nil {
				t.Fatal(err)
			}
			store := journal.NewStore(p, cfg.Journal.Key, nil)
			if err := store.Load(); err != nil {
				t.Fatal(err)
			}
			nav := journal.NewNavigator(store)
			if err := nav.Edit("Dear **diary**"); err != nil {
				t.Fatal(err)
			}
			if err := p.Close(); err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			if err := RunExport(context.Background(), "-", "My Journal", WithConfig(cfg), WithOutput(&out)); err != nil {
				t.Fatalf("RunExport: %v", err)
			}
			html := out.String()
			if !strings.Contains(html, "<title>My Journal</title>") || !strings.Contains(html, "<strong>diary</strong>") {
				t.Errorf("unexpected export:\n%s", html)
			}
		})
	}
}

func TestRunExport_ToFileWithLog(t *testing.T) {
	cfg := testConfig(t, storage.BackendFS)
	dir := t.TempDir()
	cfg.App.LogFile = filepath.Join(dir, "logs", "folio.log")
	target := filepath.Join(dir, "journal.html")

	if err := RunExport(context.Background(), target, "Journal", WithConfig(cfg)); err != nil {
		t.Fatalf("RunExport: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `id="chapter-1"`) {
		t.Errorf("export missing first chapter:\n%s", data)
	}
	logData, err := os.ReadFile(cfg.App.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logData), "Journal exported") {
		t.Errorf("log file missing export entry:\n%s", logData)
	}
}

func TestRunExport_FileErrorReturned(t *testing.T) {
	cfg := testConfig(t, storage.BackendFS)
	target := filepath.Join(t.TempDir(), "missing", "journal.html")

	if err := RunExport(context.Background(), target, "Journal", WithConfig(cfg)); err == nil {
		t.Fatal("expected error for an unwritable export path")
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("no file should be written, stat err = %v", err)
	}
}
