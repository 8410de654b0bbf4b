package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/domain"
)

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.deps.Members.List(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	m, err := s.deps.Members.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var m domain.Member
	if err := decodeJSON(r, &m); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := validateMember(&m); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.deps.Members.Create(r.Context(), &m); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var m domain.Member
	if err := decodeJSON(r, &m); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := validateMember(&m); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	m.ID = id

	if err := s.deps.Members.Update(r.Context(), &m); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.deps.Members.Delete(r.Context(), id); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateMember checks the fields the API requires on manual writes.
// The bulk importer has its own, more forgiving cleaning rules.
func validateMember(m *domain.Member) error {
	if m.Email == "" {
		return errMissingField("email")
	}
	if m.PaymentStatus == "" {
		m.PaymentStatus = domain.PaymentPending
	}
	if m.PaymentStatus != domain.PaymentPaid && m.PaymentStatus != domain.PaymentPending {
		return errInvalidField("paymentStatus")
	}
	return nil
}
