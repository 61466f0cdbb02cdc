package internal

import (
	"io"

	"github.com/starford/folio/internal/contact"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	dispatcher contact.Dispatcher
	logWriter  io.Writer
	output     io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDispatcher replaces the mail provider used by the contact endpoint.
func WithDispatcher(d contact.Dispatcher) Option {
	return func(a *application) {
		a.dispatcher = d
	}
}

// WithLogWriter sends the server log to w instead of stdout.
func WithLogWriter(w io.Writer) Option {
	return func(a *application) {
		a.logWriter = w
	}
}

// WithOutput sets where exported documents are written when no file is given.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.output = w
	}
}
