package ingest

import (
	"fmt"
	"sync"
)

// ProcessingResult is the aggregate outcome of one import call, relayed
// verbatim to the upload endpoint's caller. Errors holds record-level
// failures; Warnings holds field-level degradations (bad phones, bad
// dates) that never block a record.
type ProcessingResult struct {
	TotalRecords   int      `json:"totalRecords"`
	NewRecords     int      `json:"newRecords"`
	UpdatedRecords int      `json:"updatedRecords"`
	SkippedRows    int      `json:"skippedRows"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings,omitempty"`
	Summary        string   `json:"summary"`
}

// resultAggregator accumulates counts and messages as records flow
// through the pipeline. Safe for concurrent use by reconciler workers.
type resultAggregator struct {
	mu       sync.Mutex
	total    int
	created  int
	updated  int
	skipped  int
	errors   []string
	warnings []string
}

func newResultAggregator() *resultAggregator {
	return &resultAggregator{}
}

func (a *resultAggregator) addCandidate() {
	a.mu.Lock()
	a.total++
	a.mu.Unlock()
}

func (a *resultAggregator) addCreated() {
	a.mu.Lock()
	a.created++
	a.mu.Unlock()
}

func (a *resultAggregator) addUpdated() {
	a.mu.Lock()
	a.updated++
	a.mu.Unlock()
}

func (a *resultAggregator) addSkipped() {
	a.mu.Lock()
	a.skipped++
	a.mu.Unlock()
}

func (a *resultAggregator) addError(msg string) {
	a.mu.Lock()
	a.errors = append(a.errors, msg)
	a.mu.Unlock()
}

func (a *resultAggregator) addWarnings(msgs []string) {
	if len(msgs) == 0 {
		return
	}
	a.mu.Lock()
	a.warnings = append(a.warnings, msgs...)
	a.mu.Unlock()
}

// result finalizes the accumulated state into a ProcessingResult.
// Errors is always non-nil so the JSON encoding is [] rather than null.
func (a *resultAggregator) result() *ProcessingResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	errs := a.errors
	if errs == nil {
		errs = []string{}
	}

	return &ProcessingResult{
		TotalRecords:   a.total,
		NewRecords:     a.created,
		UpdatedRecords: a.updated,
		SkippedRows:    a.skipped,
		Errors:         errs,
		Warnings:       a.warnings,
		Summary: fmt.Sprintf("Processed %d records: %d new, %d updated.",
			a.total, a.created, a.updated),
	}
}
