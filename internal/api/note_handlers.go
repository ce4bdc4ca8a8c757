package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/notes"
	"github.com/notes-saas/notes-server/internal/storage"
)

// HandleCreateNote creates a note for the acting user's tenant
func (s *RESTServer) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	tenant := tenantFromContext(r.Context())

	var req struct {
		Title   string `json:"title" validate:"required"`
		Content string `json:"content"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := s.notes.Create(r.Context(), tenant, claims.UserID, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, notes.ErrTitleRequired):
			s.respondError(w, http.StatusBadRequest, "title required")
		case errors.Is(err, notes.ErrQuotaExceeded):
			// Distinguished from plain validation failures so clients
			// can present an upgrade prompt.
			s.respondJSON(w, http.StatusPaymentRequired, map[string]string{
				"error":   "note_limit_reached",
				"message": "Upgrade to Pro for unlimited notes",
			})
		default:
			s.respondInternalError(w, err)
		}
		return
	}

	s.recorder.Record(r.Context(), tenant, claims.UserID, models.EventTypeNoteCreated,
		"Note created", models.Variables{"noteId": note.ID.String(), "title": note.Title})

	s.respondJSON(w, http.StatusOK, note)
}

// HandleListNotes lists the tenant's notes, newest first
func (s *RESTServer) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	tenant := tenantFromContext(r.Context())

	list, err := s.notes.List(r.Context(), tenant)
	if err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, list)
}

// HandleGetNote gets a note
func (s *RESTServer) HandleGetNote(w http.ResponseWriter, r *http.Request) {
	tenant := tenantFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}

	note, err := s.notes.Get(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "not found")
			return
		}
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, note)
}

// HandleUpdateNote applies a partial update to a note
func (s *RESTServer) HandleUpdateNote(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	tenant := tenantFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}

	var upd models.NoteUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := s.notes.Update(r.Context(), tenant, id, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "not found")
			return
		}
		s.respondInternalError(w, err)
		return
	}

	s.recorder.Record(r.Context(), tenant, claims.UserID, models.EventTypeNoteUpdated,
		"Note updated", models.Variables{"noteId": note.ID.String()})

	s.respondJSON(w, http.StatusOK, note)
}

// HandleDeleteNote deletes a note
func (s *RESTServer) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	tenant := tenantFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.notes.Delete(r.Context(), tenant, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "not found")
			return
		}
		s.respondInternalError(w, err)
		return
	}

	s.recorder.Record(r.Context(), tenant, claims.UserID, models.EventTypeNoteDeleted,
		"Note deleted", models.Variables{"noteId": id.String()})

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}
