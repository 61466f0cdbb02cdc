// Package apperr holds the sentinel errors shared across folio packages.
package apperr

import "errors"

var (
	// ErrValidationFailed marks a contact submission with a missing or malformed field.
	ErrValidationFailed = errors.New("validation failed")
	// ErrDispatchFailed marks a mail provider or transport failure.
	ErrDispatchFailed = errors.New("dispatch failed")
	// ErrCorruptState marks persisted journal state that cannot be used.
	ErrCorruptState = errors.New("corrupt state")
	ErrNotFound     = errors.New("not found")
	// ErrUnsupportedImage marks an embed attempt with a non-image file.
	ErrUnsupportedImage = errors.New("unsupported image")
)
