package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged server-side with the request ID for
// correlation; clients receive a JSON body with a sanitized message.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/avenard/clubregistry/internal/repository"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs the technical error and writes a JSON error body.
// repository.ErrNotFound is translated to 404 regardless of the status
// the caller suggested.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	if errors.Is(err, repository.ErrNotFound) {
		statusCode = http.StatusNotFound
	}

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	msg := err.Error()
	if statusCode >= http.StatusInternalServerError {
		// Internal details stay in the log.
		msg = "internal server error"
	}
	writeJSON(w, statusCode, ErrorResponse{Error: msg})
}

// writeJSON encodes v as JSON and writes it with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// errMissingField reports a required JSON field that was absent.
func errMissingField(name string) error {
	return fmt.Errorf("missing required field %q", name)
}

// errInvalidField reports a JSON field with an unusable value.
func errInvalidField(name string) error {
	return fmt.Errorf("invalid value for field %q", name)
}

// decodeJSON reads a JSON request body into dst, rejecting unknown
// fields and oversized payloads.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
