package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// Ensure IndexSink implements the interface.
var _ driven.IndexSink = (*IndexSink)(nil)

// IndexSink is an in-memory implementation of driven.IndexSink.
// Rejections and transport failures can be injected for tests.
type IndexSink struct {
	mu        sync.RWMutex
	documents map[string]domain.IndexDocument
	batches   [][]domain.SinkOp
	reject    map[string]string
	failWith  error
}

// NewIndexSink creates a new in-memory index sink.
func NewIndexSink() *IndexSink {
	return &IndexSink{
		documents: make(map[string]domain.IndexDocument),
		reject:    make(map[string]string),
	}
}

// Bulk applies ops in order.
func (s *IndexSink) Bulk(_ context.Context, ops []domain.SinkOp) (*domain.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	batch := make([]domain.SinkOp, len(ops))
	copy(batch, ops)
	s.batches = append(s.batches, batch)

	result := &domain.BulkResult{}
	for _, op := range ops {
		if reason, ok := s.reject[op.Key]; ok {
			result.Failures = append(result.Failures, domain.BulkFailure{Key: op.Key, Path: op.Path, Reason: reason})
			continue
		}
		switch op.Kind {
		case domain.SinkUpsert:
			if op.Document != nil {
				s.documents[op.Key] = *op.Document
			}
		case domain.SinkDelete:
			delete(s.documents, op.Key)
		}
		result.Succeeded++
	}
	return result, nil
}

// Close is a no-op.
func (s *IndexSink) Close() error {
	return nil
}

// Reject makes every later op for key fail with reason.
func (s *IndexSink) Reject(key, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject[key] = reason
}

// FailWith makes every later Bulk call fail with err. Pass nil to recover.
func (s *IndexSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Get returns the stored document for key.
func (s *IndexSink) Get(key string) (domain.IndexDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[key]
	return doc, ok
}

// Count returns the number of stored documents.
func (s *IndexSink) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Batches returns the sizes of every delivered batch in order.
func (s *IndexSink) Batches() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sizes := make([]int, len(s.batches))
	for i, b := range s.batches {
		sizes[i] = len(b)
	}
	return sizes
}
