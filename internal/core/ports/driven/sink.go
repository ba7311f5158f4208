package driven

import (
	"context"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// IndexSink writes batches of idempotent upserts and deletes into an index.
// Implementations must be safe for concurrent use by independent feeds.
type IndexSink interface {
	// Bulk applies ops in order as one batch.
	// A transport failure returns an error and no result.
	// Individually rejected ops are reported in BulkResult.Failures.
	Bulk(ctx context.Context, ops []domain.SinkOp) (*domain.BulkResult, error)

	// Close releases resources.
	Close() error
}
