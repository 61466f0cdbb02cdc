// Package contact implements the contact form pipeline: validation of raw
// form input and orchestration of the mail dispatch.
package contact

import (
	"context"
	"strings"
)

// Subject is the fixed subject line of every contact notification.
const Subject = "New Contact Form Submission"

// Form field names.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// RawFields maps a form field name to its submitted value. A nil or missing
// value means the field was absent from the request.
type RawFields map[string]*string

// Get returns the value of field, or an empty string when it is absent.
func (f RawFields) Get(field string) string {
	if v, ok := f[field]; ok && v != nil {
		return *v
	}
	return ""
}

// FieldsFromMap builds RawFields from a plain string map (e.g. url.Values
// flattened to first values).
func FieldsFromMap(m map[string]string) RawFields {
	out := make(RawFields, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = &v
	}
	return out
}

// FoldKeys returns f with field names lower-cased, matching FieldsFromMap. A
// key that is already lower case wins over a differently cased duplicate.
func (f RawFields) FoldKeys() RawFields {
	out := make(RawFields, len(f))
	for k, v := range f {
		lk := strings.ToLower(k)
		if _, exact := f[lk]; exact && lk != k {
			continue
		}
		out[lk] = v
	}
	return out
}

// Submission is a validated contact form submission. It is never persisted.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Receipt is the provider acknowledgement of a dispatched submission.
type Receipt struct {
	ID string `json:"id"`
}

// Dispatcher delivers a validated submission to the mail provider.
// Implementations perform exactly one outbound call per invocation.
type Dispatcher interface {
	Dispatch(ctx context.Context, sub Submission) (Receipt, error)
}

// Result is the value returned to the presentation layer for one submission.
type Result struct {
	Success bool              `json:"success"`
	Data    *Receipt          `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
