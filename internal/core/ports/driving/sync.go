package driving

import (
	"context"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// FeedSynchroniser mirrors one feed into the index.
type FeedSynchroniser interface {
	// RunCycle performs exactly one fetch-reconcile-write-checkpoint pass.
	RunCycle(ctx context.Context) (*domain.CycleResult, error)

	// Run repeats cycles until ctx is cancelled.
	// A failed cycle is logged and retried after the update interval.
	Run(ctx context.Context) error

	// Status returns the current loop status.
	Status() SyncStatus
}

// SyncStatus represents the current state of a feed's sync loop.
type SyncStatus struct {
	// FeedID identifies the feed.
	FeedID string

	// State is the loop's current state.
	State domain.LoopState

	// Cycles counts completed cycles, successful or not.
	Cycles int

	// Failures counts cycles that did not advance the checkpoint.
	Failures int

	// LastResult is the outcome of the most recent cycle, if any.
	LastResult *domain.CycleResult
}
