package contact

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/apperr"
)

// Error strings surfaced in Result.Error.
const (
	MsgInvalidForm  = "Invalid form data"
	MsgDispatchFail = "An error occurred"
)

// Orchestrator is the single entry point for a contact form submission:
// validate, then dispatch exactly once.
//
// It holds no per-submission state and is safe for concurrent use. It does
// not suppress duplicates; a retried submission produces another email.
type Orchestrator struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewOrchestrator creates an Orchestrator sending through d.
func NewOrchestrator(d Dispatcher, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{dispatcher: d, logger: logger}
}

// Submit validates raw and, if valid, dispatches it. Every outcome is
// reported through the returned Result.
func (o *Orchestrator) Submit(ctx context.Context, raw RawFields) Result {
	id := uuid.NewString()
	log := o.logger.With(slog.String("submission_id", id))

	sub, err := Validate(raw)
	if err != nil {
		res := Result{Success: false, Error: MsgInvalidForm}
		var verr *ValidationError
		if errors.As(err, &verr) {
			res.Fields = verr.Fields
		}
		log.Info("contact: rejected", slog.String("error", err.Error()))
		return res
	}

	receipt, err := o.dispatcher.Dispatch(ctx, sub)
	if err != nil {
		log.Warn("contact: dispatch failed", slog.String("error", err.Error()))
		return Result{Success: false, Error: dispatchMessage(err)}
	}

	log.Info("contact: dispatched", slog.String("provider_id", receipt.ID))
	return Result{Success: true, Data: &receipt}
}

// dispatchMessage returns the provider message carried by err, stripped of
// the ErrDispatchFailed wrapper.
func dispatchMessage(err error) string {
	var derr interface{ ProviderMessage() string }
	if errors.As(err, &derr) && derr.ProviderMessage() != "" {
		return derr.ProviderMessage()
	}
	if msg := err.Error(); msg != "" && msg != apperr.ErrDispatchFailed.Error() {
		return msg
	}
	return MsgDispatchFail
}
