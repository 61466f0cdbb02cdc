package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/starford/folio/internal/journal"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/tui"
)

// journalSession is an opened journal with its log and storage handles.
type journalSession struct {
	nav      *journal.Navigator
	logger   *slog.Logger
	provider storage.Provider
	logFile  io.Closer
}

func (s *journalSession) Close() error {
	err := s.provider.Close()
	if s.logFile != nil {
		if cerr := s.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// journalLogger writes to app.log_file, or nowhere when it is unset. The
// terminal belongs to the editor or the MCP transport.
func journalLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: cfg.App.LogLevel}
	if cfg.App.LogFile == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), nil, nil
	}
	path, err := homedir.Expand(cfg.App.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("expand log file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, opts)), f, nil
}

func openJournal(cfg *Config) (*journalSession, error) {
	logger, logFile, err := journalLogger(cfg)
	if err != nil {
		return nil, err
	}
	closeLog := func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}

	path, err := cfg.Journal.StoragePath()
	if err != nil {
		closeLog()
		return nil, err
	}
	provider, err := storage.Open(cfg.Journal.Backend, path)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	store := journal.NewStore(provider, cfg.Journal.Key, logger)
	if err := store.Load(); err != nil {
		_ = provider.Close()
		closeLog()
		return nil, err
	}

	logger.Info("Journal opened",
		slog.String("backend", cfg.Journal.Backend),
		slog.String("path", path),
		slog.String("key", cfg.Journal.Key),
		slog.Int("chapters", store.Chapters()))

	return &journalSession{
		nav:      journal.NewNavigator(store),
		logger:   logger,
		provider: provider,
		logFile:  logFile,
	}, nil
}

// RunJournal opens the terminal editor on the configured journal.
func RunJournal(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := openJournal(app.config)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := tui.Run(s.nav); err != nil {
		s.logger.Error("editor stopped", slog.String("error", err.Error()))
		return fmt.Errorf("journal editor: %w", err)
	}
	return nil
}

// RunExport renders the journal as a standalone HTML page to path, or to
// the configured output when path is empty or "-".
func RunExport(_ context.Context, path, title string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := openJournal(app.config)
	if err != nil {
		return err
	}
	defer s.Close()

	if path == "" || path == "-" {
		if err := render.New().Document(app.output, title, s.nav.Store().Document()); err != nil {
			return err
		}
	} else if err := exportFile(path, title, s.nav.Store().Document()); err != nil {
		return err
	}
	s.logger.Info("Journal exported", slog.String("path", path))
	return nil
}

func exportFile(path, title string, doc *journal.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := render.New().Document(f, title, doc); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// RunMCP serves the journal over MCP on stdin/stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := openJournal(app.config)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := mcpserver.New(s.nav, s.logger).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
