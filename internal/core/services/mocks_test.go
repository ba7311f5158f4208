package services

import (
	"context"
	"errors"
	stdsync "sync"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// syncMockFeed serves scripted pages keyed by the marker they follow.
type syncMockFeed struct {
	mu         stdsync.Mutex
	pages      map[string]*domain.ChangePage
	pageErrs   map[string]error
	content    map[string][]byte
	contentErr map[string]error
	requested  []string
	downloaded []string
	closed     bool
	onChanges  func(marker string)
}

func newSyncMockFeed() *syncMockFeed {
	return &syncMockFeed{
		pages:      make(map[string]*domain.ChangePage),
		pageErrs:   make(map[string]error),
		content:    make(map[string][]byte),
		contentErr: make(map[string]error),
	}
}

func (f *syncMockFeed) Type() string { return "mock" }

func (f *syncMockFeed) Changes(_ context.Context, marker string) (*domain.ChangePage, error) {
	f.mu.Lock()
	f.requested = append(f.requested, marker)
	hook := f.onChanges
	page, ok := f.pages[marker]
	err := f.pageErrs[marker]
	f.mu.Unlock()

	if hook != nil {
		hook(marker)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return &domain.ChangePage{Marker: marker}, nil
	}
	return page, nil
}

func (f *syncMockFeed) Content(_ context.Context, entry domain.PathEntry) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloaded = append(f.downloaded, entry.Path)
	if err := f.contentErr[entry.Path]; err != nil {
		return nil, err
	}
	return f.content[entry.Path], nil
}

func (f *syncMockFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *syncMockFeed) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}

// syncMockFactory hands out one scripted feed per feed ID.
type syncMockFactory struct {
	feeds map[string]*syncMockFeed
}

func (m *syncMockFactory) Create(_ context.Context, feed domain.Feed) (driven.ChangeFeed, error) {
	f, ok := m.feeds[feed.ID]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return f, nil
}

// syncFailingCheckpoints wraps a store and fails chosen operations.
type syncFailingCheckpoints struct {
	driven.CheckpointStore
	loadErr error
	saveErr error
}

func (s *syncFailingCheckpoints) Load(ctx context.Context, feedID string) (*domain.Checkpoint, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.CheckpointStore.Load(ctx, feedID)
}

func (s *syncFailingCheckpoints) Save(ctx context.Context, cp domain.Checkpoint) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.CheckpointStore.Save(ctx, cp)
}

var errNetwork = errors.New("connection reset by peer")

func file(rev string, size uint64) *domain.PathEntry {
	return &domain.PathEntry{Rev: rev, Size: size, MIMEType: "text/plain"}
}
