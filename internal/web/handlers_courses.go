package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/domain"
)

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.Courses.List(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	c, err := s.deps.Courses.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var c domain.Course
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := validateCourse(&c); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.deps.Courses.Create(r.Context(), &c); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var c domain.Course
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := validateCourse(&c); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	c.ID = id

	if err := s.deps.Courses.Update(r.Context(), &c); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.deps.Courses.Delete(r.Context(), id); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateCourse checks the parts of a weekly slot the storage layer
// cannot express as constraints.
func validateCourse(c *domain.Course) error {
	if c.Name == "" {
		return errMissingField("name")
	}
	if c.CoachID == uuid.Nil {
		return errMissingField("coachId")
	}
	if c.Weekday < time.Sunday || c.Weekday > time.Saturday {
		return errInvalidField("weekday")
	}
	if _, err := time.Parse("15:04", c.StartTime); err != nil {
		return errInvalidField("startTime")
	}
	if c.EndTime != "" {
		if _, err := time.Parse("15:04", c.EndTime); err != nil {
			return errInvalidField("endTime")
		}
	}
	if c.Capacity < 0 {
		return errInvalidField("capacity")
	}
	return nil
}
