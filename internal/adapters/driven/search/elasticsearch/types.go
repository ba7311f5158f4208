package elasticsearch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

type actionMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type action struct {
	Index  *actionMeta `json:"index,omitempty"`
	Delete *actionMeta `json:"delete,omitempty"`
}

type document struct {
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	PathEncoded string     `json:"path_encoded"`
	RootPath    string     `json:"root_path,omitempty"`
	Feed        string     `json:"feed"`
	PostDate    int64      `json:"post_date"` // epoch millis
	Modified    *time.Time `json:"modified,omitempty"`
	Size        uint64     `json:"size"`
	Rev         string     `json:"rev,omitempty"`
	ContentHash string     `json:"content_hash,omitempty"`
	ContentType string     `json:"content_type,omitempty"`
	File        *file      `json:"file,omitempty"`
}

type file struct {
	Name     string `json:"_name"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func newDocument(d *domain.IndexDocument) document {
	doc := document{
		Name:        d.Name,
		Path:        d.Path,
		PathEncoded: d.PathEncoded,
		RootPath:    d.RootPath,
		Feed:        d.Feed,
		PostDate:    d.PostDate.UnixMilli(),
		Size:        d.Size,
		Rev:         d.Rev,
		ContentHash: d.ContentHash,
		ContentType: d.ContentType,
	}
	if !d.Modified.IsZero() {
		m := d.Modified.UTC()
		doc.Modified = &m
	}
	if d.Content != "" {
		doc.File = &file{Name: d.Name, Content: d.Content, Encoding: d.ContentEncoding}
	}
	return doc
}

type bulkResponse struct {
	Took   int                        `json:"took"`
	Errors bool                       `json:"errors"`
	Items  []map[string]bulkItemReply `json:"items"`
}

type bulkItemReply struct {
	ID     string     `json:"_id"`
	Status int        `json:"status"`
	Result string     `json:"result"`
	Error  *itemError `json:"error,omitempty"`
}

type itemError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// result matches reply items to ops by position.
// Deleting a missing document is a success.
func (r *bulkResponse) result(ops []domain.SinkOp) (*domain.BulkResult, error) {
	if len(r.Items) != len(ops) {
		return nil, fmt.Errorf("%w: bulk reply has %d items for %d ops", domain.ErrSinkWriteFailed, len(r.Items), len(ops))
	}

	result := &domain.BulkResult{}
	for i, item := range r.Items {
		op := ops[i]
		var reply bulkItemReply
		for _, v := range item {
			reply = v
		}

		switch {
		case reply.Status < http.StatusMultipleChoices:
			result.Succeeded++
		case op.Kind == domain.SinkDelete && reply.Status == http.StatusNotFound:
			result.Succeeded++
		default:
			reason := fmt.Sprintf("status %d", reply.Status)
			if reply.Error != nil {
				reason = fmt.Sprintf("%s: %s", reply.Error.Type, reply.Error.Reason)
			}
			result.Failures = append(result.Failures, domain.BulkFailure{Key: op.Key, Path: op.Path, Reason: reason})
		}
	}
	return result, nil
}
