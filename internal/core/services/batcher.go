package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-river/internal/logger"
)

// BatchedSink queues sink operations and writes them in batches.
// It belongs to a single cycle and is not safe for concurrent use.
type BatchedSink struct {
	sink      driven.IndexSink
	threshold int
	queue     []domain.SinkOp

	batches   int
	succeeded int
	rejected  int
}

// NewBatchedSink wraps sink with an auto-flush threshold.
// A non-positive threshold uses domain.DefaultBatchSize.
func NewBatchedSink(sink driven.IndexSink, threshold int) *BatchedSink {
	if threshold <= 0 {
		threshold = domain.DefaultBatchSize
	}
	return &BatchedSink{
		sink:      sink,
		threshold: threshold,
		queue:     make([]domain.SinkOp, 0, threshold),
	}
}

// QueueUpsert queues a create-or-replace of doc at key.
func (b *BatchedSink) QueueUpsert(ctx context.Context, key, path string, doc *domain.IndexDocument) error {
	return b.enqueue(ctx, domain.SinkOp{Kind: domain.SinkUpsert, Key: key, Path: path, Document: doc})
}

// QueueDelete queues a removal of key.
func (b *BatchedSink) QueueDelete(ctx context.Context, key, path string) error {
	return b.enqueue(ctx, domain.SinkOp{Kind: domain.SinkDelete, Key: key, Path: path})
}

func (b *BatchedSink) enqueue(ctx context.Context, op domain.SinkOp) error {
	b.queue = append(b.queue, op)
	if len(b.queue) >= b.threshold {
		return b.Flush(ctx)
	}
	return nil
}

// Flush writes every pending operation as one batch.
// The queue is emptied whatever the outcome. Individually rejected
// operations are logged and counted but do not fail the flush.
func (b *BatchedSink) Flush(ctx context.Context) error {
	if len(b.queue) == 0 {
		return nil
	}

	ops := b.queue
	b.queue = make([]domain.SinkOp, 0, b.threshold)

	result, err := b.sink.Bulk(ctx, ops)
	if err != nil {
		return fmt.Errorf("%w: batch of %d: %w", domain.ErrSinkWriteFailed, len(ops), err)
	}

	b.batches++
	if result == nil {
		b.succeeded += len(ops)
		return nil
	}

	b.succeeded += result.Succeeded
	if result.HasFailures() {
		b.rejected += len(result.Failures)
		logger.Warn("%v: %d of %d operations rejected", domain.ErrSinkWritePartial, len(result.Failures), len(ops))
		for _, f := range result.Failures {
			logger.Debug("rejected %s (%s): %s", f.Path, f.Key, f.Reason)
		}
	}
	return nil
}

// Pending returns the number of queued operations.
func (b *BatchedSink) Pending() int {
	return len(b.queue)
}

// Batches returns the number of batches delivered.
func (b *BatchedSink) Batches() int {
	return b.batches
}

// Succeeded returns the number of accepted operations.
func (b *BatchedSink) Succeeded() int {
	return b.succeeded
}

// Rejected returns the number of individually rejected operations.
func (b *BatchedSink) Rejected() int {
	return b.rejected
}
