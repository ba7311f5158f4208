package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.IndexSink = (*Sink)(nil)

const (
	defaultRetryCount    = 2
	defaultRetryInterval = time.Second
	defaultTimeout       = 60 * time.Second
	userAgent            = "sercha-river"
)

// Sink writes batches into one Elasticsearch index.
// It is safe for concurrent use.
type Sink struct {
	client *req.Client
	index  string
}

// Option configures a Sink.
type Option func(*req.Client)

// WithRetry sets how often a failed request is retried and the pause between tries.
func WithRetry(count int, interval time.Duration) Option {
	return func(c *req.Client) {
		c.SetCommonRetryCount(count).SetCommonRetryFixedInterval(interval)
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *req.Client) {
		c.SetTimeout(d)
	}
}

// New creates a sink for settings.URL and settings.Name.
func New(settings domain.IndexSettings, opts ...Option) (*Sink, error) {
	if settings.URL == "" || settings.Name == "" {
		return nil, fmt.Errorf("%w: elasticsearch url and index name are required", domain.ErrInvalidInput)
	}

	client := req.C().
		SetBaseURL(strings.TrimSuffix(settings.URL, "/")).
		SetUserAgent(userAgent).
		SetTimeout(defaultTimeout).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal).
		SetCommonRetryCount(defaultRetryCount).
		SetCommonRetryFixedInterval(defaultRetryInterval).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		})

	if settings.Username != "" {
		client.SetCommonBasicAuth(settings.Username, settings.Password)
	}
	for _, opt := range opts {
		opt(client)
	}

	return &Sink{client: client, index: settings.Name}, nil
}

// Bulk sends ops as one _bulk request.
func (s *Sink) Bulk(ctx context.Context, ops []domain.SinkOp) (*domain.BulkResult, error) {
	if len(ops) == 0 {
		return &domain.BulkResult{}, nil
	}

	body, err := s.encode(ops)
	if err != nil {
		return nil, err
	}

	var out bulkResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-ndjson").
		SetBodyBytes(body).
		SetSuccessResult(&out).
		Post("/_bulk")
	if err := handleAPIError(resp, err, "bulk"); err != nil {
		return nil, err
	}

	return out.result(ops)
}

// encode renders ops as newline-delimited action and source lines.
func (s *Sink) encode(ops []domain.SinkOp) ([]byte, error) {
	var buf bytes.Buffer
	for _, op := range ops {
		meta := actionMeta{Index: s.index, ID: op.Key}

		switch op.Kind {
		case domain.SinkUpsert:
			if op.Document == nil {
				return nil, fmt.Errorf("%w: upsert %s without document", domain.ErrInvalidInput, op.Path)
			}
			if err := writeLine(&buf, action{Index: &meta}); err != nil {
				return nil, err
			}
			if err := writeLine(&buf, newDocument(op.Document)); err != nil {
				return nil, err
			}
		case domain.SinkDelete:
			if err := writeLine(&buf, action{Delete: &meta}); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: op kind %d", domain.ErrUnsupportedType, op.Kind)
		}
	}
	return buf.Bytes(), nil
}

func writeLine(buf *bytes.Buffer, v any) error {
	line, err := jsonMarshal(v)
	if err != nil {
		return fmt.Errorf("encoding bulk line: %w", err)
	}
	buf.Write(line)
	buf.WriteByte('\n')
	return nil
}

// Close releases idle connections.
func (s *Sink) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}
