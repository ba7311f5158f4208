package dropbox

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-river/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.ChangeFeed = (*Connector)(nil)

// Connector reads the Dropbox change feed for one feed.
type Connector struct {
	feedID  string
	config  *Config
	api     filesAPI
	limiter *RateLimiter
	mu      sync.Mutex
	closed  bool
}

// New creates a connector over an SDK files client.
func New(feedID string, cfg *Config, api filesAPI) *Connector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Connector{
		feedID:  feedID,
		config:  cfg,
		api:     api,
		limiter: NewRateLimiter(cfg.RateLimit),
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return domain.ProviderDropbox
}

// Changes returns one page of the change feed.
// An empty marker starts a recursive listing of the configured root.
func (c *Connector) Changes(ctx context.Context, marker string) (*domain.ChangePage, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		res *files.ListFolderResult
		err error
	)
	if marker == "" {
		arg := files.NewListFolderArg(c.config.Root)
		arg.Recursive = true
		arg.IncludeDeleted = true
		res, err = c.api.ListFolder(arg)
	} else {
		res, err = c.api.ListFolderContinue(files.NewListFolderContinueArg(marker))
	}
	if err != nil {
		c.recordError(err)
		return nil, WrapError(err)
	}

	page := &domain.ChangePage{
		Records: make([]domain.RawChange, 0, len(res.Entries)),
		Marker:  res.Cursor,
		HasMore: res.HasMore,
	}
	for _, entry := range res.Entries {
		if rc, ok := toRawChange(entry); ok {
			page.Records = append(page.Records, rc)
		}
	}

	logger.Debug("dropbox %s: page with %d entries (has_more=%t)", c.feedID, len(page.Records), page.HasMore)
	return page, nil
}

// Content downloads the body of a file.
// It returns nil content without error for types that are not worth indexing
// and for files over domain.MaxContentSize.
func (c *Connector) Content(ctx context.Context, entry domain.PathEntry) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if entry.IsDir || entry.IsDeleted || !shouldDownloadContent(entry.MIMEType) {
		return nil, nil
	}
	if entry.Size > domain.MaxContentSize {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	_, body, err := c.api.Download(files.NewDownloadArg(entry.Path))
	if err != nil {
		c.recordError(err)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrContentUnavailable, entry.Path, WrapError(err))
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, domain.MaxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrContentUnavailable, entry.Path, err)
	}
	if len(data) > domain.MaxContentSize {
		logger.Debug("dropbox %s: %s grew past %d bytes, skipping content", c.feedID, entry.Path, domain.MaxContentSize)
		return nil, nil
	}
	return data, nil
}

// Close marks the connector closed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Connector) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectorClosed
	}
	return nil
}

func (c *Connector) recordError(err error) {
	if d, ok := RetryAfter(err); ok {
		logger.Warn("dropbox %s: rate limited, backing off", c.feedID)
		c.limiter.Backoff(d)
	}
}
