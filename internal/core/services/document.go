package services

import (
	"encoding/base64"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// keyNamespace scopes derived document keys to this application.
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/sercha-river"))

// DocumentKey derives the sink key of a path within a feed.
// The key is stable across cycles and independent of the path's byte layout.
func DocumentKey(feedID, path string) string {
	return uuid.NewSHA1(keyNamespace, []byte(feedID+":"+path)).String()
}

// BuildDocument assembles the index document for a file entry.
// Content may be nil when it was not fetched.
func BuildDocument(feed domain.Feed, entry domain.PathEntry, content []byte, now time.Time) *domain.IndexDocument {
	display := entry.DisplayPath
	if display == "" {
		display = entry.Path
	}

	doc := &domain.IndexDocument{
		Name:        entry.Name(),
		Path:        display,
		PathEncoded: encodePath(display),
		RootPath:    feed.Root,
		Feed:        feed.ID,
		PostDate:    now,
		Modified:    entry.Modified,
		Size:        entry.Size,
		Rev:         entry.Rev,
		ContentHash: entry.ContentHash,
		ContentType: entry.MIMEType,
	}

	switch {
	case len(content) == 0:
	case utf8.Valid(content):
		doc.Content = string(content)
		doc.ContentEncoding = "text"
	default:
		doc.Content = base64.StdEncoding.EncodeToString(content)
		doc.ContentEncoding = "base64"
	}
	return doc
}

// encodePath escapes every segment of p, keeping the separators.
func encodePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
