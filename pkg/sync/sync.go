// Package sync executes reconciliation plans against the remote store in
// fixed-size chunks, aggregating partial success and failure. Update and
// deletion phases carry deliberately different failure semantics: losing an
// update risks data loss, losing one deletion only leaves a stale duplicate
// for a later run to retry.
package sync

import (
	"context"

	pkgerrors "github.com/campgroundfyi/airsync/pkg/errors"
	"github.com/campgroundfyi/airsync/pkg/logging"
	"github.com/campgroundfyi/airsync/pkg/reconcile"
)

// Store is the remote record store boundary the executor writes through.
// Update accepts at most the store's per-call batch cap; Delete removes one
// record per call.
type Store interface {
	Update(ctx context.Context, updates []reconcile.Update) error
	Delete(ctx context.Context, id string) error
}

// Applier executes plans against a Store.
type Applier struct {
	store Store
	chunk int
}

// Option configures an Applier.
type Option func(*Applier)

// WithChunkSize sets the number of operations grouped into one chunk.
func WithChunkSize(n int) Option {
	return func(a *Applier) {
		if n > 0 {
			a.chunk = n
		}
	}
}

// DefaultChunkSize matches the remote API's per-call item cap.
const DefaultChunkSize = 10

// NewApplier creates an Applier writing through store.
func NewApplier(store Store, opts ...Option) *Applier {
	a := &Applier{store: store, chunk: DefaultChunkSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply executes the plan. All update chunks are issued before any deletion
// is attempted, so no duplicate is removed before its merged data has landed
// on the primary. A failed update chunk aborts the rest of the update phase,
// skips the entire deletion phase, and surfaces as the returned error. A
// failed individual deletion is recorded and skipped while the deletion phase
// continues. The Outcome is always populated; callers must inspect it rather
// than assume a nil error means every duplicate was removed.
func (a *Applier) Apply(ctx context.Context, plan *reconcile.Plan) (*Outcome, error) {
	log := logging.Ctx(ctx)
	outcome := &Outcome{}

	for start := 0; start < len(plan.Updates); start += a.chunk {
		end := min(start+a.chunk, len(plan.Updates))
		batch := plan.Updates[start:end]

		if err := a.store.Update(ctx, batch); err != nil {
			ids := make([]string, 0, len(batch))
			for _, u := range batch {
				ids = append(ids, u.ID)
			}
			syncErr := pkgerrors.NewSyncError("update", ids, err)
			outcome.Failures = append(outcome.Failures, Failure{Op: OpUpdate, IDs: ids, Err: err})
			log.Error().
				Err(err).
				Int("batch_size", len(batch)).
				Msg("Update batch failed, skipping deletion phase")
			return outcome, syncErr
		}

		outcome.Updated += len(batch)
		log.Info().
			Int("batch_size", len(batch)).
			Int("updated_total", outcome.Updated).
			Msg("Updated batch of records")
	}

	for start := 0; start < len(plan.Deletions); start += a.chunk {
		end := min(start+a.chunk, len(plan.Deletions))

		// The store only supports single-record deletes; the chunk boundary
		// here exists purely for log grouping.
		for _, id := range plan.Deletions[start:end] {
			if err := a.store.Delete(ctx, id); err != nil {
				outcome.Failures = append(outcome.Failures, Failure{Op: OpDelete, IDs: []string{id}, Err: err})
				log.Warn().
					Err(err).
					Str("record_id", id).
					Msg("Failed to delete duplicate, continuing")
				continue
			}
			outcome.Deleted++
			outcome.DeletedIDs = append(outcome.DeletedIDs, id)
		}

		log.Info().
			Int("batch_size", end-start).
			Int("deleted_total", outcome.Deleted).
			Msg("Processed batch of deletions")
	}

	return outcome, nil
}
