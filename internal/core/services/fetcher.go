package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-river/internal/logger"
)

// DeltaFetcher pulls every pending change page from a feed and folds them
// into one ChangeSet.
type DeltaFetcher struct {
	feedID  string
	changes driven.ChangeFeed
}

// NewDeltaFetcher creates a fetcher over a change feed.
func NewDeltaFetcher(feedID string, changes driven.ChangeFeed) *DeltaFetcher {
	return &DeltaFetcher{feedID: feedID, changes: changes}
}

// Fetch paginates from marker until the feed reports no more changes.
// Any page failure discards the partial set and returns ErrFetchFailed.
// An expired marker restarts the fetch once from the beginning.
func (f *DeltaFetcher) Fetch(ctx context.Context, marker string) (*domain.ChangeSet, error) {
	cs, err := f.fetch(ctx, marker)
	if err != nil && marker != "" && errors.Is(err, domain.ErrMarkerExpired) {
		logger.Warn("feed %s: position marker rejected, starting a full resync", f.feedID)
		return f.fetch(ctx, "")
	}
	return cs, err
}

func (f *DeltaFetcher) fetch(ctx context.Context, marker string) (*domain.ChangeSet, error) {
	// Page requests complete even if ctx is cancelled; cancellation is
	// observed between pages.
	ioCtx := context.WithoutCancel(ctx)

	cs := domain.NewChangeSet()
	cs.Marker = marker

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := f.changes.Changes(ioCtx, cs.Marker)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrFetchFailed, page, err)
		}
		if resp == nil {
			return nil, fmt.Errorf("%w: page %d: empty response", domain.ErrFetchFailed, page)
		}

		cs.ApplyPage(resp)
		logger.Debug("feed %s: page %d: %d records, has_more=%t", f.feedID, page, len(resp.Records), resp.HasMore)

		if !resp.HasMore {
			return cs, nil
		}
	}
}
