package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ehclinic/medcat/internal/apperr"
	"github.com/ehclinic/medcat/internal/catalog"
	"github.com/ehclinic/medcat/internal/models"
	"github.com/ehclinic/medcat/internal/passkey"
)

// maxImportSize bounds the import request body.
const maxImportSize = 10 << 20 // 10 MB

// Handler holds API route handlers.
type Handler struct {
	svc      *catalog.Service
	gate     *passkey.Gate
	sessions *Sessions
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service, gate *passkey.Gate, sessions *Sessions) *Handler {
	return &Handler{svc: svc, gate: gate, sessions: sessions}
}

// GateState handles GET /api/gate.
func (h *Handler) GateState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GateStateResponse{State: string(h.gate.State())})
}

// CreateCredential handles POST /api/gate/credential. A successful create
// replaces any prior pass key and unlocks the session.
func (h *Handler) CreateCredential(w http.ResponseWriter, r *http.Request) {
	var req SecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.gate.CreateCredential(req.Secret); err != nil {
		if errors.Is(err, passkey.ErrSecretTooShort) {
			writeJSON(w, http.StatusBadRequest,
				errorBody(fmt.Sprintf("pass key must be at least %d characters", passkey.MinSecretLen)))
			return
		}
		slog.Error("create credential failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, UnlockResponse{
		State: string(passkey.StateUnlocked),
		Token: h.sessions.Mint(),
	})
}

// Unlock handles POST /api/gate/unlock.
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req SecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ok, err := h.gate.AttemptUnlock(req.Secret)
	if err != nil {
		slog.Error("unlock failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("wrong pass key"))
		return
	}
	writeJSON(w, http.StatusOK, UnlockResponse{
		State: string(passkey.StateUnlocked),
		Token: h.sessions.Mint(),
	})
}

// ResetGate handles POST /api/gate/reset: back to creation mode. The old
// hash survives until a new create succeeds, but live sessions are revoked.
func (h *Handler) ResetGate(w http.ResponseWriter, _ *http.Request) {
	h.gate.ResetCredential()
	h.sessions.Revoke()
	w.WriteHeader(http.StatusNoContent)
}

// GetDocument handles GET /api/document.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Document(r.Context()))
}

// ListDiseases handles GET /api/diseases with an optional q filter.
func (h *Handler) ListDiseases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	diseases, err := h.svc.Search(r.Context(), q)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DiseaseListResponse{Diseases: diseases, Total: len(diseases)})
}

// CreateDisease handles POST /api/diseases.
func (h *Handler) CreateDisease(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.AddDisease(r.Context())
	if err != nil {
		slog.Error("add disease failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// GetDisease handles GET /api/diseases/{id}.
func (h *Handler) GetDisease(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.svc.GetDisease(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// UpdateDisease handles PUT /api/diseases/{id}.
func (h *Handler) UpdateDisease(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var next models.Disease
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if next.ID != "" && next.ID != id {
		writeJSON(w, http.StatusBadRequest, errorBody("body id does not match URL"))
		return
	}
	next.ID = id

	if err := h.svc.UpdateDisease(r.Context(), next); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("update disease failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	d, err := h.svc.GetDisease(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDisease handles DELETE /api/diseases/{id}.
//
// Without confirm=true this is the request step: the delete is marked
// pending and nothing is mutated (202). With confirm=true the delete is
// confirmed and performed (204).
func (h *Handler) DeleteDisease(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if err := h.svc.RequestDelete(ctx, id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusAccepted, DeleteRequestedResponse{Status: "confirmation required"})
		return
	}

	if err := h.svc.ConfirmDelete(ctx, id); err != nil {
		slog.Error("confirm delete failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchLink handles GET /api/diseases/{id}/search-link.
func (h *Handler) SearchLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	link, err := h.svc.SearchLink(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, SearchLinkResponse{URL: link})
}

// AddReference handles POST /api/diseases/{id}/references.
func (h *Handler) AddReference(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	ref, err := h.svc.AddReference(r.Context(), id, models.Reference{
		Kind:  req.Kind,
		Label: req.Label,
		URL:   req.URL,
		Note:  req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidReference):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("add reference failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

// RemoveReference handles DELETE /api/diseases/{id}/references/{refID}.
func (h *Handler) RemoveReference(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	refID := chi.URLParam(r, "refID")

	if err := h.svc.RemoveReference(r.Context(), id, refID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("remove reference failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/export: the whole document as a downloadable,
// pretty-printed JSON file named with the current date.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.svc.ExportDocument(r.Context())
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/import: wholesale document replacement.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	doc, err := h.svc.ImportDocument(r.Context(), data)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidDocument) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
