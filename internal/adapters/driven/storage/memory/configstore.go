package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for testing.
type ConfigStore struct {
	mu      sync.RWMutex
	feeds   []domain.Feed
	index   domain.IndexSettings
	dataDir string
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore(dataDir string, feeds ...domain.Feed) *ConfigStore {
	return &ConfigStore{
		feeds:   feeds,
		index:   domain.DefaultIndexSettings(),
		dataDir: dataDir,
	}
}

// Load is a no-op.
func (s *ConfigStore) Load() error {
	return nil
}

// Feeds returns the configured feeds with defaults applied.
func (s *ConfigStore) Feeds() []domain.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Feed, len(s.feeds))
	for i, f := range s.feeds {
		out[i] = f.WithDefaults()
	}
	return out
}

// Feed returns one feed by ID.
func (s *ConfigStore) Feed(id string) (domain.Feed, error) {
	for _, f := range s.Feeds() {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.Feed{}, fmt.Errorf("feed %s: %w", id, domain.ErrNotFound)
}

// SetFeeds replaces the configured feeds.
func (s *ConfigStore) SetFeeds(feeds ...domain.Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = feeds
}

// Index returns the index settings.
func (s *ConfigStore) Index() domain.IndexSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// SetIndex replaces the index settings.
func (s *ConfigStore) SetIndex(index domain.IndexSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
}

// DataDir returns the data directory.
func (s *ConfigStore) DataDir() string {
	return s.dataDir
}

// Path returns an empty path; nothing is persisted.
func (s *ConfigStore) Path() string {
	return ""
}
