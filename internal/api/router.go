package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ehclinic/medcat/internal/catalog"
	"github.com/ehclinic/medcat/internal/passkey"
)

// NewRouter creates a chi router with all API routes mounted. Gate endpoints
// are open; everything else sits behind the session middleware.
// sseHandler, if non-nil, is mounted at GET /events inside the gated group.
func NewRouter(svc *catalog.Service, gate *passkey.Gate, sessions *Sessions, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, gate, sessions)

	r := chi.NewRouter()

	// Pass-key gate (unauthenticated by definition).
	r.Get("/gate", h.GateState)
	r.Post("/gate/credential", h.CreateCredential)
	r.Post("/gate/unlock", h.Unlock)
	r.Post("/gate/reset", h.ResetGate)

	// Everything else requires an unlocked session.
	r.Group(func(r chi.Router) {
		r.Use(GateMiddleware(gate, sessions))

		r.Get("/document", h.GetDocument)

		r.Get("/diseases", h.ListDiseases)
		r.Post("/diseases", h.CreateDisease)
		r.Get("/diseases/{id}", h.GetDisease)
		r.Put("/diseases/{id}", h.UpdateDisease)
		r.Delete("/diseases/{id}", h.DeleteDisease)
		r.Get("/diseases/{id}/search-link", h.SearchLink)

		r.Post("/diseases/{id}/references", h.AddReference)
		r.Delete("/diseases/{id}/references/{refID}", h.RemoveReference)

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
