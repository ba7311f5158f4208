package driven

import (
	"context"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// ChangeFeed reads a remote store through its change-feed API.
// Implementations normalise provider payloads into domain.RawChange at the
// boundary, so the core never sees provider-specific tuple layouts.
type ChangeFeed interface {
	// Type returns the provider identifier.
	Type() string

	// Changes returns the page that follows marker.
	// An empty marker starts from the beginning of the tree.
	// Returns domain.ErrMarkerExpired if the remote rejects the marker.
	Changes(ctx context.Context, marker string) (*domain.ChangePage, error)

	// Content downloads the body of a file entry.
	Content(ctx context.Context, entry domain.PathEntry) ([]byte, error)

	// Close releases resources.
	Close() error
}

// ChangeFeedFactory creates change feeds from feed configuration.
type ChangeFeedFactory interface {
	// Create returns a ChangeFeed for the given feed.
	// Returns domain.ErrUnsupportedType if the provider is unknown.
	Create(ctx context.Context, feed domain.Feed) (ChangeFeed, error)
}
