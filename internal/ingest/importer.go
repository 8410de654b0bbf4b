package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/avenard/clubregistry/internal/tabular"
)

// SkipPolicy decides how rows without a usable identity (empty email
// after cleaning) appear in the result. They are never errors; source
// exports use such rows as deliberate placeholders.
type SkipPolicy int

const (
	// SkipSilently excludes identity-less rows from every count.
	SkipSilently SkipPolicy = iota
	// SkipCounted reports them in the SkippedRows count.
	SkipCounted
)

// Importer runs one full ingestion: rows in, ProcessingResult out.
//
// An import is a single synchronous operation with no background state.
// Re-running the same input is safe: the upsert-by-email rule makes the
// final store state idempotent. There is no batch rollback; records
// already applied stay applied when a later record fails, and every
// abandoned record is reported, never silently dropped.
type Importer struct {
	store      MemberStore
	workers    int
	skipPolicy SkipPolicy
	now        func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithWorkers bounds how many candidates reconcile in parallel.
func WithWorkers(n int) Option {
	return func(imp *Importer) { imp.workers = n }
}

// WithSkipPolicy selects how identity-less rows are reported.
func WithSkipPolicy(p SkipPolicy) Option {
	return func(imp *Importer) { imp.skipPolicy = p }
}

// WithClock overrides the registration-date clock. Tests use this to
// pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(imp *Importer) { imp.now = now }
}

// NewImporter creates an importer writing through the given store.
func NewImporter(store MemberStore, opts ...Option) *Importer {
	imp := &Importer{
		store:   store,
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import consumes the row stream and reconciles every candidate against
// the member store.
//
// Malformed data never surfaces as a failure of the call itself: if the
// input cannot be read as a table, the result reports zero records and a
// single explanatory error, and nothing is applied to the store. The
// returned error is reserved for context cancellation.
func (imp *Importer) Import(ctx context.Context, rows tabular.RowReader) (*ProcessingResult, error) {
	agg := newResultAggregator()
	start := imp.now()

	// Buffer the candidate stream before touching the store, so a table
	// that turns out to be unreadable partway through applies nothing.
	var candidates []CandidateRecord
	for {
		if err := ctx.Err(); err != nil {
			return agg.result(), err
		}

		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Rows buffered so far are discarded too: the report for an
			// unreadable table always shows zero records and one error.
			slog.Warn("import aborted, input not parsable as a table", "error", err)
			fail := newResultAggregator()
			fail.addError(fmt.Sprintf("unreadable input: %v", err))
			return fail.result(), nil
		}

		cand, warnings, ok := ParseRow(row, start)
		if !ok {
			if imp.skipPolicy == SkipCounted {
				agg.addSkipped()
			}
			continue
		}
		agg.addWarnings(warnings)
		agg.addCandidate()
		candidates = append(candidates, cand)
	}

	rec := NewReconciler(imp.store, imp.workers)
	outcomes, errs := rec.Reconcile(ctx, candidates)

	for _, o := range outcomes {
		if o.Created {
			agg.addCreated()
		} else {
			agg.addUpdated()
		}
	}
	for _, e := range errs {
		agg.addError(e)
	}

	result := agg.result()
	slog.Info("import finished",
		"total", result.TotalRecords,
		"new", result.NewRecords,
		"updated", result.UpdatedRecords,
		"errors", len(result.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, ctx.Err()
}
