package web

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/avenard/clubregistry/internal/ingest"
	"github.com/avenard/clubregistry/internal/logging"
	"github.com/avenard/clubregistry/internal/tabular"
)

// handleImportMembers ingests an uploaded member export (CSV or XLSX)
// and reconciles it against the registry. The response always carries a
// full processing report; malformed files come back as a report with an
// error list, not as an HTTP failure.
func (s *Server) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, fmt.Errorf("reading upload: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := formatForFilename(header.Filename)

	logger := logging.WithFields(r.Context(),
		"filename", header.Filename,
		"size", header.Size,
		"format", string(format),
	)
	logger.Info("member import started")

	rows, err := tabular.Open(file, format)
	if err != nil {
		// Not a readable table at all. Same contract as a mid-stream
		// read failure: report it, apply nothing.
		writeJSON(w, http.StatusOK, unreadableResult(err))
		return
	}

	result, err := s.deps.Importer.Import(r.Context(), rows)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveImport(result)
	}

	logger.Info("member import finished",
		"total", result.TotalRecords,
		"new", result.NewRecords,
		"updated", result.UpdatedRecords,
		"errors", len(result.Errors),
	)
	writeJSON(w, http.StatusOK, result)
}

// unreadableResult builds the report for a file that could not be
// opened as a table: zero records seen, one error, nothing applied.
func unreadableResult(err error) *ingest.ProcessingResult {
	return &ingest.ProcessingResult{
		Errors:  []string{fmt.Sprintf("unreadable input: %v", err)},
		Summary: "Processed 0 records: 0 new, 0 updated.",
	}
}

// formatForFilename picks the reader format from the file extension.
// Anything that is not a spreadsheet is treated as delimited text.
func formatForFilename(name string) tabular.Format {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return tabular.FormatXLSX
	}
	return tabular.FormatCSV
}
