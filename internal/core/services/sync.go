package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-river/internal/logger"
)

// Ensure Synchroniser implements the interface.
var _ driving.FeedSynchroniser = (*Synchroniser)(nil)

// Synchroniser mirrors one feed into an index sink.
type Synchroniser struct {
	feed        domain.Feed
	changes     driven.ChangeFeed
	sink        driven.IndexSink
	checkpoints driven.CheckpointStore

	filter atomic.Pointer[domain.FilterSpec]
	now    func() time.Time

	// cycle is held for the duration of a cycle so two never overlap.
	cycle sync.Mutex

	mu     sync.RWMutex
	status driving.SyncStatus
}

// NewSynchroniser creates a synchroniser for feed.
func NewSynchroniser(
	feed domain.Feed,
	changes driven.ChangeFeed,
	sink driven.IndexSink,
	checkpoints driven.CheckpointStore,
) *Synchroniser {
	feed = feed.WithDefaults()
	s := &Synchroniser{
		feed:        feed,
		changes:     changes,
		sink:        sink,
		checkpoints: checkpoints,
		now:         time.Now,
		status:      driving.SyncStatus{FeedID: feed.ID, State: domain.StateIdle},
	}
	filter := feed.Filter
	s.filter.Store(&filter)
	return s
}

// FeedID returns the ID of the synchronised feed.
func (s *Synchroniser) FeedID() string {
	return s.feed.ID
}

// SetFilter replaces the include/exclude patterns.
// The change takes effect from the next cycle.
func (s *Synchroniser) SetFilter(filter domain.FilterSpec) {
	s.filter.Store(&filter)
}

// Filter returns the current include/exclude patterns.
func (s *Synchroniser) Filter() domain.FilterSpec {
	return *s.filter.Load()
}

// Status returns the current loop status.
func (s *Synchroniser) Status() driving.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Synchroniser) setState(state domain.LoopState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = state
}

func (s *Synchroniser) record(result *domain.CycleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Cycles++
	if !result.Success() {
		s.status.Failures++
	}
	s.status.LastResult = result
}

// Run repeats cycles until ctx is cancelled.
// A failed cycle leaves the checkpoint untouched and is retried after the
// update interval. Returns nil once the loop has stopped.
func (s *Synchroniser) Run(ctx context.Context) error {
	logger.Info("feed %s: sync loop started, interval %s", s.feed.ID, s.feed.UpdateRate)
	defer s.setState(domain.StateStopped)

	for {
		result, err := s.RunCycle(ctx)
		switch {
		case ctx.Err() != nil:
			logger.Info("feed %s: sync loop stopped", s.feed.ID)
			return nil
		case err != nil:
			logger.Warn("feed %s: cycle failed, retrying in %s: %v", s.feed.ID, s.feed.UpdateRate, err)
		default:
			logger.Info("feed %s: cycle done in %s: %d added, %d deleted, %d skipped, %d failed",
				s.feed.ID, result.Duration().Round(time.Millisecond),
				result.Stats.Added, result.Stats.Deleted, result.Stats.Skipped, result.Stats.Failed)
		}

		s.setState(domain.StateSleeping)
		if !sleep(ctx, s.feed.UpdateRate) {
			logger.Info("feed %s: sync loop stopped", s.feed.ID)
			return nil
		}
	}
}

// sleep waits for d and returns false if ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// RunCycle performs one fetch-reconcile-write-checkpoint pass.
// The checkpoint is saved only if every earlier step succeeded.
func (s *Synchroniser) RunCycle(ctx context.Context) (*domain.CycleResult, error) {
	if !s.cycle.TryLock() {
		return nil, fmt.Errorf("feed %s: %w", s.feed.ID, domain.ErrSyncInProgress)
	}
	defer s.cycle.Unlock()

	result := &domain.CycleResult{FeedID: s.feed.ID, StartedAt: s.now()}
	err := s.runCycle(ctx, result)
	result.EndedAt = s.now()
	if err != nil {
		result.Error = err.Error()
		result.Marker = ""
	}
	s.record(result)
	s.setState(domain.StateIdle)

	return result, err
}

//nolint:gocyclo // Cycle state machine with necessary sequential steps
func (s *Synchroniser) runCycle(ctx context.Context, result *domain.CycleResult) error {
	// I/O runs to completion once started; ctx is checked between states.
	ioCtx := context.WithoutCancel(ctx)

	// 1. Load checkpoint
	s.setState(domain.StateIdle)
	marker, err := s.loadMarker(ioCtx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// 2. Fetch and reconcile every pending page
	s.setState(domain.StateFetching)
	logger.Section("Fetch " + s.feed.ID)
	changes, err := NewDeltaFetcher(s.feed.ID, s.changes).Fetch(ctx, marker)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// 3. Turn reconciled entries into sink operations
	s.setState(domain.StateReconciling)
	batch := NewBatchedSink(s.sink, s.feed.BatchSize)
	stats, err := s.apply(ctx, ioCtx, changes, batch)
	if err != nil {
		return err
	}

	// 4. Flush the remainder
	s.setState(domain.StateWriting)
	if err := batch.Flush(ioCtx); err != nil {
		return err
	}
	stats.Failed += batch.Rejected()
	if err := ctx.Err(); err != nil {
		return err
	}

	// 5. Advance the checkpoint
	s.setState(domain.StateCheckpointing)
	checkpoint := domain.Checkpoint{
		FeedID:   s.feed.ID,
		Marker:   changes.Marker,
		Stats:    stats,
		LastSync: s.now(),
	}
	if err := s.checkpoints.Save(ioCtx, checkpoint); err != nil {
		return fmt.Errorf("%w: save feed %s: %w", domain.ErrCheckpointUnavailable, s.feed.ID, err)
	}

	result.Marker = changes.Marker
	result.Stats = stats
	return nil
}

// loadMarker returns the stored marker, or "" on first run.
func (s *Synchroniser) loadMarker(ctx context.Context) (string, error) {
	cp, err := s.checkpoints.Load(ctx, s.feed.ID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("feed %s: no checkpoint, starting from the beginning", s.feed.ID)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: load feed %s: %w", domain.ErrCheckpointUnavailable, s.feed.ID, err)
	}
	return cp.Marker, nil
}

// apply queues one sink operation per sync-worthy file in the change set.
// Directories are never written. Per-file content failures skip the file.
func (s *Synchroniser) apply(
	ctx, ioCtx context.Context,
	changes *domain.ChangeSet,
	batch *BatchedSink,
) (domain.CycleStats, error) {
	var stats domain.CycleStats
	filter := s.Filter()

	for _, p := range changes.Paths() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		entry := changes.Entries[p]
		if entry.IsDir {
			continue
		}

		display := entry.DisplayPath
		if display == "" {
			display = entry.Path
		}
		if !s.feed.InRoot(entry.Path) || !filter.Allows(display) {
			stats.Skipped++
			continue
		}

		key := DocumentKey(s.feed.ID, entry.Path)

		if entry.IsDeleted {
			logger.Debug("feed %s: delete %s", s.feed.ID, display)
			if err := batch.QueueDelete(ioCtx, key, entry.Path); err != nil {
				return stats, err
			}
			stats.Deleted++
			continue
		}

		doc, err := s.document(ioCtx, entry)
		if err != nil {
			logger.Warn("feed %s: skipping %s for this cycle: %v", s.feed.ID, display, err)
			stats.Failed++
			continue
		}

		logger.Debug("feed %s: index %s", s.feed.ID, display)
		if err := batch.QueueUpsert(ioCtx, key, entry.Path, doc); err != nil {
			return stats, err
		}
		stats.Added++
	}

	return stats, nil
}

// document fetches content for entry and builds its index document.
func (s *Synchroniser) document(ctx context.Context, entry domain.PathEntry) (*domain.IndexDocument, error) {
	var content []byte
	if entry.Size <= domain.MaxContentSize {
		var err error
		content, err = s.changes.Content(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrContentUnavailable, err)
		}
	} else {
		logger.Debug("feed %s: %s exceeds %d bytes, indexing metadata only", s.feed.ID, entry.Path, domain.MaxContentSize)
	}
	return BuildDocument(s.feed, entry, content, s.now()), nil
}
