package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/domain"
)

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sheets, err := s.deps.Attendance.ListByCourse(r.Context(), courseID)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sheets)
}

func (s *Server) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sheet, err := s.deps.Attendance.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleCreateAttendance(w http.ResponseWriter, r *http.Request) {
	var sheet domain.AttendanceSheet
	if err := decodeJSON(r, &sheet); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if sheet.CourseID == uuid.Nil {
		respondError(w, r, errMissingField("courseId"), http.StatusBadRequest)
		return
	}
	if sheet.Date.IsZero() {
		respondError(w, r, errMissingField("date"), http.StatusBadRequest)
		return
	}

	if err := s.deps.Attendance.Create(r.Context(), &sheet); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sheet)
}

func (s *Server) handleUpdateAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var sheet domain.AttendanceSheet
	if err := decodeJSON(r, &sheet); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	sheet.ID = id

	if err := s.deps.Attendance.Update(r.Context(), &sheet); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleDeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.deps.Attendance.Delete(r.Context(), id); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
