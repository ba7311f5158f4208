package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is an in-memory implementation of driven.CheckpointStore.
type CheckpointStore struct {
	mu          sync.RWMutex
	checkpoints map[string]domain.Checkpoint
}

// NewCheckpointStore creates a new in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{
		checkpoints: make(map[string]domain.Checkpoint),
	}
}

// Save stores or replaces a checkpoint.
func (s *CheckpointStore) Save(_ context.Context, checkpoint domain.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[checkpoint.FeedID] = checkpoint
	return nil
}

// Load retrieves the checkpoint of a feed.
func (s *CheckpointStore) Load(_ context.Context, feedID string) (*domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.checkpoints[feedID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cp, nil
}

// Delete removes the checkpoint of a feed.
func (s *CheckpointStore) Delete(_ context.Context, feedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkpoints, feedID)
	return nil
}

// List returns all checkpoints ordered by feed ID.
func (s *CheckpointStore) List(_ context.Context) ([]domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Checkpoint, 0, len(s.checkpoints))
	for _, cp := range s.checkpoints {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeedID < out[j].FeedID })
	return out, nil
}
