package dropbox

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ChangeFeedFactory = (*Factory)(nil)

// Factory creates Dropbox connectors from feed configuration.
type Factory struct {
	newAPI func(ctx context.Context, creds domain.FeedCredentials) filesAPI
}

// NewFactory creates a factory backed by the Dropbox SDK.
func NewFactory() *Factory {
	return &Factory{newAPI: newFilesClient}
}

// Create builds a connector for feed.
func (f *Factory) Create(ctx context.Context, feed domain.Feed) (driven.ChangeFeed, error) {
	if feed.Provider != "" && feed.Provider != domain.ProviderDropbox {
		return nil, fmt.Errorf("%w: provider %q", domain.ErrUnsupportedType, feed.Provider)
	}
	if feed.Credentials.IsEmpty() {
		return nil, fmt.Errorf("%w: feed %s has no dropbox token", domain.ErrAuthRequired, feed.ID)
	}

	// The token source outlives the call that created it.
	api := f.newAPI(context.WithoutCancel(ctx), feed.Credentials)
	return New(feed.ID, ConfigFromFeed(feed), api), nil
}
