// Package api implements the contact form HTTP endpoint using chi.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/contact"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(orch *contact.Orchestrator) chi.Router {
	h := NewHandler(orch)

	r := chi.NewRouter()
	r.Post("/contact", h.Contact)
	return r
}
