package driven

import (
	"context"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// CheckpointStore persists one checkpoint record per feed.
// Writes replace the whole record.
type CheckpointStore interface {
	// Save stores or replaces the checkpoint of a feed.
	Save(ctx context.Context, checkpoint domain.Checkpoint) error

	// Load retrieves the checkpoint of a feed.
	// Returns domain.ErrNotFound when the feed has never completed a cycle.
	Load(ctx context.Context, feedID string) (*domain.Checkpoint, error)

	// Delete removes the checkpoint of a feed, forcing a full resync.
	Delete(ctx context.Context, feedID string) error

	// List returns every stored checkpoint.
	List(ctx context.Context) ([]domain.Checkpoint, error)
}
