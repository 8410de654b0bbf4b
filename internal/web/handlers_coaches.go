package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/domain"
)

func (s *Server) handleListCoaches(w http.ResponseWriter, r *http.Request) {
	coaches, err := s.deps.Coaches.List(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, coaches)
}

func (s *Server) handleGetCoach(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	c, err := s.deps.Coaches.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateCoach(w http.ResponseWriter, r *http.Request) {
	var c domain.Coach
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if c.Name == "" && c.Surname == "" {
		respondError(w, r, errMissingField("name"), http.StatusBadRequest)
		return
	}

	if err := s.deps.Coaches.Create(r.Context(), &c); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCoach(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var c domain.Coach
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	c.ID = id

	if err := s.deps.Coaches.Update(r.Context(), &c); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCoach(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.deps.Coaches.Delete(r.Context(), id); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
