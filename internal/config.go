package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"

	"github.com/starford/folio/internal/journal"
	"github.com/starford/folio/internal/mail"
	"github.com/starford/folio/internal/storage"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Mail    MailConfig        `yaml:"mail"`
	Journal JournalConfig     `yaml:"journal"`
}

// Validate validates the configuration. Mail credentials are checked
// separately by the serve command so the journal works without them.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Mail.Validate(); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.Journal.Validate(); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	LogFile  string     `yaml:"log_file"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// MailConfig configures the outgoing contact email.
type MailConfig struct {
	APIKey  string        `yaml:"api_key"`
	From    string        `yaml:"from"`
	To      string        `yaml:"to"`
	Format  string        `yaml:"format"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the mail configuration.
func (c *MailConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.From, validation.Required),
		validation.Field(&c.To, validation.Required),
		validation.Field(&c.Format, validation.In(mail.FormatHTML, mail.FormatText)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// RequireCredentials reports a missing provider API key.
func (c *MailConfig) RequireCredentials() error {
	return validation.Validate(c.APIKey, validation.Required.Error("api_key is required to send mail"))
}

// Options converts the section into mailer options.
func (c *MailConfig) Options() mail.Options {
	return mail.Options{
		From:    c.From,
		To:      c.To,
		Format:  c.Format,
		Timeout: c.Timeout,
	}
}

// JournalConfig selects where the journal document is kept.
type JournalConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Key     string `yaml:"key"`
}

// Validate validates the journal configuration and expands a leading ~ in
// Path.
func (c *JournalConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = storage.BackendFS
	}
	if c.Key == "" {
		c.Key = journal.DefaultKey
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(storage.BackendFS, storage.BackendDiskv, storage.BackendSQLite)),
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return err
	}
	p, err := homedir.Expand(c.Path)
	if err != nil {
		return fmt.Errorf("expand path: %w", err)
	}
	c.Path = p
	return nil
}

// StoragePath returns the location handed to storage.Open. Directory-based
// backends use Path as is; sqlite keeps its database file inside it.
func (c *JournalConfig) StoragePath() (string, error) {
	if c.Backend != storage.BackendSQLite {
		return c.Path, nil
	}
	if err := os.MkdirAll(c.Path, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	return filepath.Join(c.Path, "journal.db"), nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Mail: MailConfig{
			From:    "Your Website <onboarding@resend.dev>",
			To:      "owner@example.com",
			Format:  mail.FormatHTML,
			Timeout: mail.DefaultTimeout,
		},
		Journal: JournalConfig{
			Backend: storage.BackendFS,
			Path:    "~/.folio",
			Key:     journal.DefaultKey,
		},
	}
}
