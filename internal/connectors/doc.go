// Package connectors groups the remote change feed implementations.
// Each sub-package implements driven.ChangeFeed for one provider and
// exposes a driven.ChangeFeedFactory that builds it from a domain.Feed.
package connectors
