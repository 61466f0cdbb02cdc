package contact

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/folio/internal/apperr"
)

// ValidationError lists every field that failed validation with its message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "contact: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match the failure with errors.Is(err, apperr.ErrValidationFailed).
func (e *ValidationError) Unwrap() error { return apperr.ErrValidationFailed }

// Validate turns raw form input into a Submission. On failure the returned
// error is a *ValidationError naming each offending field.
func Validate(raw RawFields) (Submission, error) {
	sub := Submission{
		Name:    raw.Get(FieldName),
		Email:   raw.Get(FieldEmail),
		Message: raw.Get(FieldMessage),
	}

	err := validation.ValidateStruct(&sub,
		validation.Field(&sub.Name, validation.Required.Error("Name is required")),
		validation.Field(&sub.Email,
			validation.Required.Error("Invalid email address"),
			is.EmailFormat.Error("Invalid email address"),
		),
		validation.Field(&sub.Message, validation.Required.Error("Message is required")),
	)
	if err == nil {
		return sub, nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return Submission{}, fmt.Errorf("contact: validate: %w", err)
	}
	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		fields[name] = fieldErr.Error()
	}
	return Submission{}, &ValidationError{Fields: fields}
}
