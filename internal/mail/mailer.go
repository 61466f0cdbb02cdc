// Package mail delivers contact submissions through the Resend email API.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/contact"
)

// DefaultTimeout bounds a single provider call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Sender is the subset of the Resend emails service used by Mailer.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Options configures a Mailer.
type Options struct {
	From    string
	To      string
	Format  string
	Timeout time.Duration
}

// Error is a failed dispatch. It unwraps to apperr.ErrDispatchFailed.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("mail: dispatch failed: %s", e.Message)
}

// ProviderMessage returns the provider or transport message.
func (e *Error) ProviderMessage() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{apperr.ErrDispatchFailed}
	}
	return []error{apperr.ErrDispatchFailed, e.Err}
}

// Mailer sends contact notifications to a single fixed recipient.
// It keeps no per-call state and never retries.
type Mailer struct {
	sender Sender
	opts   Options
}

// New creates a Mailer backed by the Resend API.
func New(apiKey string, opts Options) *Mailer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	client := resend.NewCustomClient(&http.Client{Timeout: opts.Timeout}, apiKey)
	return NewWithSender(client.Emails, opts)
}

// NewWithSender creates a Mailer using s for delivery.
func NewWithSender(s Sender, opts Options) *Mailer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Format == "" {
		opts.Format = FormatHTML
	}
	return &Mailer{sender: s, opts: opts}
}

// Dispatch sends one notification for sub. Exactly one provider call is made.
func (m *Mailer) Dispatch(ctx context.Context, sub contact.Submission) (contact.Receipt, error) {
	body, err := Render(m.opts.Format, sub)
	if err != nil {
		return contact.Receipt{}, &Error{Message: err.Error(), Err: err}
	}

	req := &resend.SendEmailRequest{
		From:    m.opts.From,
		To:      []string{m.opts.To},
		Subject: contact.Subject,
	}
	if m.opts.Format == FormatText {
		req.Text = body
	} else {
		req.Html = body
	}

	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	resp, err := m.sender.SendWithContext(ctx, req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = fmt.Sprintf("mail provider did not respond within %s", m.opts.Timeout)
		}
		return contact.Receipt{}, &Error{Message: msg, Err: err}
	}
	if resp == nil {
		return contact.Receipt{}, &Error{Message: "empty provider response"}
	}
	return contact.Receipt{ID: resp.Id}, nil
}

var _ contact.Dispatcher = (*Mailer)(nil)
