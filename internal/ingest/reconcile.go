package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/domain"
)

// MemberStore is the persistence port consumed by the reconciler. Every
// call is assumed atomic per member; the pipeline adds no cross-process
// locking of its own.
type MemberStore interface {
	// FindByEmail returns (nil, nil) when no member has that email.
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	Insert(ctx context.Context, rec CandidateRecord) (*domain.Member, error)
	Update(ctx context.Context, id uuid.UUID, rec CandidateRecord) (*domain.Member, error)
}

// Outcome is the result of reconciling one candidate.
type Outcome struct {
	Email   string
	Created bool
}

// Reconciler merges candidate records into the member store by email
// identity: insert when absent, overwrite mutable fields when present.
//
// A failure while processing one candidate is contained to that
// candidate and reported as an error string; one bad record never aborts
// the batch. Candidates sharing an email are applied strictly in input
// order (last write wins) even when distinct emails run concurrently.
type Reconciler struct {
	store   MemberStore
	workers int
}

// NewReconciler creates a reconciler running at most workers candidates
// in parallel. workers <= 1 means fully sequential processing.
func NewReconciler(store MemberStore, workers int) *Reconciler {
	if workers < 1 {
		workers = 1
	}
	return &Reconciler{store: store, workers: workers}
}

// Reconcile applies all candidates and returns the per-candidate
// outcomes plus the record-level error messages. It stops early only on
// context cancellation.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []CandidateRecord) ([]Outcome, []string) {
	if r.workers <= 1 || len(candidates) < 2 {
		return r.reconcileSequential(ctx, candidates)
	}
	return r.reconcileConcurrent(ctx, candidates)
}

func (r *Reconciler) reconcileSequential(ctx context.Context, candidates []CandidateRecord) ([]Outcome, []string) {
	outcomes := make([]Outcome, 0, len(candidates))
	var errs []string

	for _, cand := range candidates {
		if ctx.Err() != nil {
			break
		}
		created, err := r.reconcileOne(ctx, cand)
		if err != nil {
			errs = append(errs, recordError(cand.Email, err))
			continue
		}
		outcomes = append(outcomes, Outcome{Email: cand.Email, Created: created})
	}
	return outcomes, errs
}

// reconcileConcurrent fans candidate groups out to a bounded worker
// pool. Grouping by email keeps same-email candidates on one worker in
// input order, which is the only cross-record ordering the pipeline
// guarantees.
func (r *Reconciler) reconcileConcurrent(ctx context.Context, candidates []CandidateRecord) ([]Outcome, []string) {
	groups := groupByEmail(candidates)

	groupCh := make(chan []CandidateRecord)
	var mu sync.Mutex
	var outcomes []Outcome
	var errs []string

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range groupCh {
				for _, cand := range group {
					if ctx.Err() != nil {
						return
					}
					created, err := r.reconcileOne(ctx, cand)
					mu.Lock()
					if err != nil {
						errs = append(errs, recordError(cand.Email, err))
					} else {
						outcomes = append(outcomes, Outcome{Email: cand.Email, Created: created})
					}
					mu.Unlock()
				}
			}
		}()
	}

	for _, group := range groups {
		if ctx.Err() != nil {
			break
		}
		groupCh <- group
	}
	close(groupCh)
	wg.Wait()

	return outcomes, errs
}

// reconcileOne performs the lookup-then-upsert for a single candidate.
// A panic in the store is recovered and surfaced as that candidate's
// error so the rest of the batch keeps going.
func (r *Reconciler) reconcileOne(ctx context.Context, cand CandidateRecord) (created bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	existing, err := r.store.FindByEmail(ctx, cand.Email)
	if err != nil {
		return false, fmt.Errorf("lookup failed: %w", err)
	}

	if existing == nil {
		if _, err := r.store.Insert(ctx, cand); err != nil {
			return false, fmt.Errorf("insert failed: %w", err)
		}
		return true, nil
	}

	if _, err := r.store.Update(ctx, existing.ID, cand); err != nil {
		return false, fmt.Errorf("update failed: %w", err)
	}
	return false, nil
}

// groupByEmail splits candidates into per-email groups, preserving both
// first-appearance order of emails and input order inside each group.
func groupByEmail(candidates []CandidateRecord) [][]CandidateRecord {
	index := make(map[string]int, len(candidates))
	var groups [][]CandidateRecord
	for _, cand := range candidates {
		i, ok := index[cand.Email]
		if !ok {
			i = len(groups)
			index[cand.Email] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], cand)
	}
	return groups
}

func recordError(email string, err error) string {
	return fmt.Sprintf("Error for %s: %v", email, err)
}
