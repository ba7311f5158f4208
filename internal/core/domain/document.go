package domain

import "time"

// MaxContentSize is the largest file whose content is fetched (5MB).
// Larger files are indexed with metadata only.
const MaxContentSize = 5 * 1024 * 1024

// IndexDocument is what the sink stores for one remote file.
type IndexDocument struct {
	// Name is the file name.
	Name string

	// Path is the display path of the file.
	Path string

	// PathEncoded is the URL-escaped path, usable as a stable link component.
	PathEncoded string

	// RootPath is the feed root the file was found under.
	RootPath string

	// Feed is the ID of the feed that produced the document.
	Feed string

	// PostDate is when the document was built for indexing.
	PostDate time.Time

	// Modified is the remote modification time.
	Modified time.Time

	// Size is the file size in bytes.
	Size uint64

	// Rev is the remote revision token.
	Rev string

	// ContentHash is the remote content hash.
	ContentHash string

	// ContentType is the MIME type.
	ContentType string

	// Content holds the file body: text as-is, binary content base64 encoded.
	// Empty when the content was not fetched.
	Content string

	// ContentEncoding is "text", "base64", or empty when Content is empty.
	ContentEncoding string
}

// SinkOpKind distinguishes upserts from deletes.
type SinkOpKind int

const (
	// SinkUpsert creates or replaces the document at Key.
	SinkUpsert SinkOpKind = iota

	// SinkDelete removes the document at Key.
	SinkDelete
)

// String returns the bulk action name of the kind.
func (k SinkOpKind) String() string {
	switch k {
	case SinkUpsert:
		return "upsert"
	case SinkDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// SinkOp is one queued sink operation. Applying it twice yields the same state.
type SinkOp struct {
	// Kind is the operation type.
	Kind SinkOpKind

	// Key is the derived document key.
	Key string

	// Path is the remote path the key was derived from. Used in logs only.
	Path string

	// Document is set for upserts.
	Document *IndexDocument
}

// BulkFailure describes one rejected operation within a batch.
type BulkFailure struct {
	Key    string
	Path   string
	Reason string
}

// BulkResult reports the outcome of one batch write.
type BulkResult struct {
	// Succeeded counts accepted operations.
	Succeeded int

	// Failures lists individually rejected operations.
	Failures []BulkFailure
}

// HasFailures returns true if any operation was rejected.
func (r *BulkResult) HasFailures() bool {
	return r != nil && len(r.Failures) > 0
}
