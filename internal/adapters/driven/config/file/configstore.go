package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileConfig mirrors the TOML layout.
type fileConfig struct {
	Storage storageConfig `toml:"storage"`
	Index   indexConfig   `toml:"index"`
	Feeds   []feedConfig  `toml:"feeds"`
}

type storageConfig struct {
	DataDir string `toml:"data_dir"`
}

type indexConfig struct {
	Backend  string `toml:"backend"`
	URL      string `toml:"url"`
	Name     string `toml:"name"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type feedConfig struct {
	ID         string            `toml:"id"`
	Provider   string            `toml:"provider"`
	Root       string            `toml:"root"`
	UpdateRate int64             `toml:"update_rate"` // milliseconds
	Includes   any               `toml:"includes"`    // array or comma-separated string
	Excludes   any               `toml:"excludes"`
	BulkSize   int               `toml:"bulk_size"`
	Credential credentialsConfig `toml:"credentials"`
}

type credentialsConfig struct {
	Token        string `toml:"token"`
	RefreshToken string `toml:"refresh_token"`
	AppKey       string `toml:"app_key"`
	AppSecret    string `toml:"app_secret"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Configuration is read from config.toml within the sercha-river config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	feeds    []domain.Feed
	index    domain.IndexSettings
	dataDir  string
}

// DefaultDir returns ~/.sercha-river.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".sercha-river"), nil
}

// NewConfigStore creates a TOML-based config store reading filePath.
// If filePath is empty, defaults to ~/.sercha-river/config.toml.
// A missing file yields an empty configuration.
func NewConfigStore(filePath string) (*ConfigStore, error) {
	if filePath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		filePath = filepath.Join(dir, "config.toml")
	}

	s := &ConfigStore{
		filePath: filePath,
		index:    domain.DefaultIndexSettings(),
	}

	if err := s.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return s, nil
}

// Load reads and parses the configuration file.
// On error the previously loaded configuration is kept.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", domain.ErrInvalidInput, s.filePath, err)
	}

	feeds := make([]domain.Feed, 0, len(cfg.Feeds))
	seen := mapset.NewThreadUnsafeSet[string]()
	for i, fc := range cfg.Feeds {
		feed, err := fc.toDomain()
		if err != nil {
			return fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if !seen.Add(feed.ID) {
			return fmt.Errorf("%w: duplicate feed id %q", domain.ErrInvalidInput, feed.ID)
		}
		feeds = append(feeds, feed)
	}

	index := domain.DefaultIndexSettings()
	mergeString(&index.Backend, cfg.Index.Backend)
	mergeString(&index.URL, cfg.Index.URL)
	mergeString(&index.Name, cfg.Index.Name)
	index.Username = cfg.Index.Username
	index.Password = os.ExpandEnv(cfg.Index.Password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = feeds
	s.index = index
	s.dataDir = expandHome(cfg.Storage.DataDir)
	return nil
}

func (fc feedConfig) toDomain() (domain.Feed, error) {
	includes, err := Patterns(fc.Includes)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("feed %s: includes: %w", fc.ID, err)
	}
	excludes, err := Patterns(fc.Excludes)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("feed %s: excludes: %w", fc.ID, err)
	}

	feed := domain.Feed{
		ID:         strings.TrimSpace(fc.ID),
		Provider:   strings.ToLower(strings.TrimSpace(fc.Provider)),
		Root:       strings.TrimSpace(fc.Root),
		UpdateRate: time.Duration(fc.UpdateRate) * time.Millisecond,
		BatchSize:  fc.BulkSize,
		Filter:     domain.FilterSpec{Includes: includes, Excludes: excludes},
		Credentials: domain.FeedCredentials{
			AccessToken:  os.ExpandEnv(fc.Credential.Token),
			RefreshToken: os.ExpandEnv(fc.Credential.RefreshToken),
			AppKey:       fc.Credential.AppKey,
			AppSecret:    os.ExpandEnv(fc.Credential.AppSecret),
		},
	}.WithDefaults()

	if err := feed.Validate(); err != nil {
		return domain.Feed{}, err
	}
	return feed, nil
}

// Patterns reads a pattern list given as a TOML array or a comma-separated
// string. Entries are trimmed, empty entries dropped, and duplicates removed
// keeping the first occurrence.
func Patterns(v any) ([]string, error) {
	var raw []string
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		raw = strings.Split(val, ",")
	case []string:
		raw = val
	case []any:
		for _, item := range val {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: pattern %v is not a string", domain.ErrInvalidInput, item)
			}
			raw = append(raw, str)
		}
	default:
		return nil, fmt.Errorf("%w: patterns must be an array or a string, got %T", domain.ErrInvalidInput, v)
	}
	return NormalisePatterns(raw), nil
}

// NormalisePatterns trims, drops empty entries and de-duplicates in order.
func NormalisePatterns(patterns []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || !seen.Add(p) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Feeds returns the configured feeds with defaults applied.
func (s *ConfigStore) Feeds() []domain.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Feed, len(s.feeds))
	copy(out, s.feeds)
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

// Index returns the index sink settings.
func (s *ConfigStore) Index() domain.IndexSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// DataDir returns the configured data directory, or a data directory
// next to the config file when none is set.
func (s *ConfigStore) DataDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataDir != "" {
		return s.dataDir
	}
	return filepath.Join(filepath.Dir(s.filePath), "data")
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
