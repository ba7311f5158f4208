package dropbox

import (
	"strings"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// Config holds the parsed configuration for a Dropbox feed.
type Config struct {
	// Root is the folder to list. Empty lists the whole account.
	Root string

	// RateLimit holds the request throttle.
	RateLimit RateLimitConfig
}

// DefaultConfig returns a config that lists the account root.
func DefaultConfig() *Config {
	return &Config{
		RateLimit: DefaultRateLimit,
	}
}

// ConfigFromFeed derives the connector config from a feed.
func ConfigFromFeed(feed domain.Feed) *Config {
	cfg := DefaultConfig()
	cfg.Root = listRoot(feed.Root)
	return cfg
}

// listRoot converts a feed root to the form list_folder expects.
// Dropbox addresses the account root as "" rather than "/".
func listRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" || root == "/" {
		return ""
	}
	return strings.TrimSuffix(root, "/")
}
