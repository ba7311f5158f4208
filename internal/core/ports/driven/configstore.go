package driven

import "github.com/custodia-labs/sercha-river/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Load reads configuration from storage.
	Load() error

	// Feeds returns the configured feeds with defaults applied.
	Feeds() []domain.Feed

	// Feed returns one feed by ID.
	// Returns domain.ErrNotFound if no feed has that ID.
	Feed(id string) (domain.Feed, error)

	// Index returns the index sink settings.
	Index() domain.IndexSettings

	// DataDir returns the directory for local state.
	DataDir() string

	// Path returns the configuration file path.
	Path() string
}
