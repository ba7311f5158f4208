package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-river/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs one Synchroniser per feed, each on its own goroutine.
// Feeds share only the sink and the checkpoint store.
type Scheduler struct {
	feeds       []domain.Feed
	factory     driven.ChangeFeedFactory
	sink        driven.IndexSink
	checkpoints driven.CheckpointStore

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	loops     map[string]*Synchroniser
	openFeeds []driven.ChangeFeed
}

// NewScheduler creates a scheduler for feeds.
func NewScheduler(
	feeds []domain.Feed,
	factory driven.ChangeFeedFactory,
	sink driven.IndexSink,
	checkpoints driven.CheckpointStore,
) *Scheduler {
	return &Scheduler{
		feeds:       feeds,
		factory:     factory,
		sink:        sink,
		checkpoints: checkpoints,
		loops:       make(map[string]*Synchroniser),
	}
}

// Start runs every feed loop and blocks until ctx is cancelled or Stop is called.
// Feeds whose change feed cannot be created are logged and left out.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	defer func() {
		cancel()
		s.closeFeeds()
		s.mu.Lock()
		s.running = false
		close(s.done)
		s.mu.Unlock()
	}()

	loops := s.build(ctx)
	if len(loops) == 0 {
		return fmt.Errorf("scheduler: no feed could be started: %w", domain.ErrInvalidInput)
	}

	var g errgroup.Group
	for _, loop := range loops {
		g.Go(func() error {
			return loop.Run(ctx)
		})
	}
	return g.Wait()
}

// build creates a synchroniser for every valid feed.
func (s *Scheduler) build(ctx context.Context) []*Synchroniser {
	s.mu.Lock()
	defer s.mu.Unlock()

	loops := make([]*Synchroniser, 0, len(s.feeds))
	for _, feed := range s.feeds {
		loop, changes, err := newFeedSynchroniser(ctx, feed, s.factory, s.sink, s.checkpoints)
		if err != nil {
			logger.Error("scheduler: feed %s not started: %v", feed.ID, err)
			continue
		}
		s.loops[feed.ID] = loop
		s.openFeeds = append(s.openFeeds, changes)
		loops = append(loops, loop)
	}
	return loops
}

func (s *Scheduler) closeFeeds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.openFeeds {
		if err := c.Close(); err != nil {
			logger.Warn("scheduler: closing %s feed: %v", c.Type(), err)
		}
	}
	s.openFeeds = nil
}

// Stop cancels every loop and waits for them to finish their current state.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	return nil
}

// Statuses returns the status of every loop, ordered by feed ID.
func (s *Scheduler) Statuses() []driving.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]driving.SyncStatus, 0, len(s.loops))
	for _, loop := range s.loops {
		out = append(out, loop.Status())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeedID < out[j].FeedID })
	return out
}

// UpdateFilters pushes new include/exclude patterns into running loops.
// Feeds that are not running are ignored.
func (s *Scheduler) UpdateFilters(feeds []domain.Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, feed := range feeds {
		if loop, ok := s.loops[feed.ID]; ok {
			loop.SetFilter(feed.Filter)
			logger.Info("feed %s: filter reloaded (%d includes, %d excludes)",
				feed.ID, len(feed.Filter.Includes), len(feed.Filter.Excludes))
		}
	}
}

// RunOnce runs a single cycle for each feed in parallel and returns every result.
// The returned error joins the failures of all feeds.
func RunOnce(
	ctx context.Context,
	feeds []domain.Feed,
	factory driven.ChangeFeedFactory,
	sink driven.IndexSink,
	checkpoints driven.CheckpointStore,
) ([]domain.CycleResult, error) {
	results := make([]domain.CycleResult, len(feeds))
	errs := make([]error, len(feeds))

	var g errgroup.Group
	g.SetLimit(4)
	for i, feed := range feeds {
		g.Go(func() error {
			results[i], errs[i] = runOnce(ctx, feed, factory, sink, checkpoints)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func runOnce(
	ctx context.Context,
	feed domain.Feed,
	factory driven.ChangeFeedFactory,
	sink driven.IndexSink,
	checkpoints driven.CheckpointStore,
) (domain.CycleResult, error) {
	loop, changes, err := newFeedSynchroniser(ctx, feed, factory, sink, checkpoints)
	if err != nil {
		return domain.CycleResult{FeedID: feed.ID, Error: err.Error()}, fmt.Errorf("feed %s: %w", feed.ID, err)
	}
	defer changes.Close()

	result, err := loop.RunCycle(ctx)
	if err != nil {
		err = fmt.Errorf("feed %s: %w", feed.ID, err)
	}
	if result == nil {
		return domain.CycleResult{FeedID: feed.ID, Error: err.Error()}, err
	}
	return *result, err
}

func newFeedSynchroniser(
	ctx context.Context,
	feed domain.Feed,
	factory driven.ChangeFeedFactory,
	sink driven.IndexSink,
	checkpoints driven.CheckpointStore,
) (*Synchroniser, driven.ChangeFeed, error) {
	if err := feed.Validate(); err != nil {
		return nil, nil, err
	}
	if factory == nil {
		return nil, nil, fmt.Errorf("create change feed: factory not configured")
	}
	changes, err := factory.Create(ctx, feed)
	if err != nil {
		return nil, nil, fmt.Errorf("create change feed: %w", err)
	}
	return NewSynchroniser(feed, changes, sink, checkpoints), changes, nil
}
