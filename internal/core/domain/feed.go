package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultUpdateRate is the interval between cycles when none is configured.
	DefaultUpdateRate = 15 * time.Minute

	// DefaultBatchSize is the sink auto-flush threshold when none is configured.
	DefaultBatchSize = 100

	// ProviderDropbox is the only remote provider currently wired.
	ProviderDropbox = "dropbox"
)

// Feed is one remote tree mirrored into the index.
type Feed struct {
	// ID identifies the feed and keys its checkpoint.
	ID string

	// Provider names the remote (e.g., "dropbox").
	Provider string

	// Root restricts the feed to paths under this folder. Empty means the whole account.
	Root string

	// UpdateRate is the sleep between cycles.
	UpdateRate time.Duration

	// Filter holds the include/exclude patterns.
	Filter FilterSpec

	// BatchSize is the sink auto-flush threshold.
	BatchSize int

	// Credentials authenticate against the remote.
	Credentials FeedCredentials
}

// FeedCredentials are pre-established remote credentials.
type FeedCredentials struct {
	// AccessToken is a long-lived or current access token.
	AccessToken string

	// RefreshToken allows minting new access tokens when set with the app key/secret.
	RefreshToken string

	// AppKey is the OAuth client ID.
	AppKey string

	// AppSecret is the OAuth client secret.
	AppSecret string
}

// HasRefresh returns true when the credentials can refresh themselves.
func (c FeedCredentials) HasRefresh() bool {
	return c.RefreshToken != "" && c.AppKey != ""
}

// IsEmpty returns true when no credential of any kind is set.
func (c FeedCredentials) IsEmpty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// WithDefaults returns a copy with zero-valued tunables replaced by defaults.
func (f Feed) WithDefaults() Feed {
	if f.UpdateRate <= 0 {
		f.UpdateRate = DefaultUpdateRate
	}
	if f.BatchSize <= 0 {
		f.BatchSize = DefaultBatchSize
	}
	if f.Provider == "" {
		f.Provider = ProviderDropbox
	}
	return f
}

// Validate checks the feed has what a sync loop needs.
func (f Feed) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: feed id is required", ErrInvalidInput)
	}
	if f.BatchSize < 0 {
		return fmt.Errorf("%w: feed %s: bulk_size must not be negative", ErrInvalidInput, f.ID)
	}
	if f.Root != "" && !strings.HasPrefix(f.Root, "/") {
		return fmt.Errorf("%w: feed %s: root must be absolute", ErrInvalidInput, f.ID)
	}
	return nil
}

// NormalisedRoot returns the lower-case root without a trailing slash.
// The account root normalises to the empty string.
func (f Feed) NormalisedRoot() string {
	return strings.TrimSuffix(strings.ToLower(f.Root), "/")
}

// InRoot reports whether path lies under the feed root.
// Comparison is case-insensitive and respects path segment boundaries.
func (f Feed) InRoot(path string) bool {
	root := f.NormalisedRoot()
	if root == "" {
		return true
	}
	p := strings.ToLower(path)
	if p == root {
		return true
	}
	return strings.HasPrefix(p, root+"/")
}
