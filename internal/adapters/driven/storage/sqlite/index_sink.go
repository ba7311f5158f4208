package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// indexSink implements driven.IndexSink over the documents table.
type indexSink struct {
	store *Store
}

var _ driven.IndexSink = (*indexSink)(nil)

type documentRow struct {
	Key             string `db:"doc_key"`
	Feed            string `db:"feed"`
	Name            string `db:"name"`
	Path            string `db:"path"`
	PathEncoded     string `db:"path_encoded"`
	RootPath        string `db:"root_path"`
	PostDateMs      int64  `db:"post_date_ms"`
	ModifiedMs      int64  `db:"modified_ms"`
	Size            int64  `db:"size"`
	Rev             string `db:"rev"`
	ContentHash     string `db:"content_hash"`
	ContentType     string `db:"content_type"`
	Content         string `db:"content"`
	ContentEncoding string `db:"content_encoding"`
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func newDocumentRow(key string, doc *domain.IndexDocument) documentRow {
	return documentRow{
		Key:             key,
		Feed:            doc.Feed,
		Name:            doc.Name,
		Path:            doc.Path,
		PathEncoded:     doc.PathEncoded,
		RootPath:        doc.RootPath,
		PostDateMs:      millis(doc.PostDate),
		ModifiedMs:      millis(doc.Modified),
		Size:            int64(doc.Size),
		Rev:             doc.Rev,
		ContentHash:     doc.ContentHash,
		ContentType:     doc.ContentType,
		Content:         doc.Content,
		ContentEncoding: doc.ContentEncoding,
	}
}

func (r documentRow) toDomain() domain.IndexDocument {
	return domain.IndexDocument{
		Name:            r.Name,
		Path:            r.Path,
		PathEncoded:     r.PathEncoded,
		RootPath:        r.RootPath,
		Feed:            r.Feed,
		PostDate:        fromMillis(r.PostDateMs),
		Modified:        fromMillis(r.ModifiedMs),
		Size:            uint64(r.Size),
		Rev:             r.Rev,
		ContentHash:     r.ContentHash,
		ContentType:     r.ContentType,
		Content:         r.Content,
		ContentEncoding: r.ContentEncoding,
	}
}

// Bulk applies ops in one transaction. Each op runs under its own
// savepoint, so a rejected op leaves no partial rows and the rest commit.
func (s *indexSink) Bulk(ctx context.Context, ops []domain.SinkOp) (*domain.BulkResult, error) {
	tx, err := s.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result := &domain.BulkResult{}
	for _, op := range ops {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT sink_op"); err != nil {
			return nil, fmt.Errorf("opening savepoint: %w", err)
		}

		opErr := applyOp(ctx, tx, op)
		if opErr != nil {
			if _, err := tx.ExecContext(ctx, "ROLLBACK TO sink_op"); err != nil {
				return nil, fmt.Errorf("rolling back op %s: %w", op.Key, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "RELEASE sink_op"); err != nil {
			return nil, fmt.Errorf("releasing savepoint: %w", err)
		}

		if opErr != nil {
			result.Failures = append(result.Failures, domain.BulkFailure{Key: op.Key, Path: op.Path, Reason: opErr.Error()})
			continue
		}
		result.Succeeded++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch: %w", err)
	}
	return result, nil
}

func applyOp(ctx context.Context, tx *sqlx.Tx, op domain.SinkOp) error {
	switch op.Kind {
	case domain.SinkUpsert:
		return upsertDocument(ctx, tx, op)
	case domain.SinkDelete:
		return deleteDocument(ctx, tx, op.Key)
	default:
		return fmt.Errorf("%w: op kind %d", domain.ErrUnsupportedType, op.Kind)
	}
}

func upsertDocument(ctx context.Context, tx *sqlx.Tx, op domain.SinkOp) error {
	if op.Document == nil {
		return fmt.Errorf("%w: upsert without document", domain.ErrInvalidInput)
	}
	row := newDocumentRow(op.Key, op.Document)

	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO documents (doc_key, feed, name, path, path_encoded, root_path, post_date_ms,
			modified_ms, size, rev, content_hash, content_type, content, content_encoding)
		VALUES (:doc_key, :feed, :name, :path, :path_encoded, :root_path, :post_date_ms,
			:modified_ms, :size, :rev, :content_hash, :content_type, :content, :content_encoding)
		ON CONFLICT(doc_key) DO UPDATE SET
			feed = excluded.feed,
			name = excluded.name,
			path = excluded.path,
			path_encoded = excluded.path_encoded,
			root_path = excluded.root_path,
			post_date_ms = excluded.post_date_ms,
			modified_ms = excluded.modified_ms,
			size = excluded.size,
			rev = excluded.rev,
			content_hash = excluded.content_hash,
			content_type = excluded.content_type,
			content = excluded.content,
			content_encoding = excluded.content_encoding
	`, row)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents_fts WHERE doc_key = ?", op.Key); err != nil {
		return err
	}

	// Only text bodies are worth tokenising.
	text := ""
	if row.ContentEncoding == "text" {
		text = row.Content
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO documents_fts (doc_key, name, path, content) VALUES (?, ?, ?, ?)",
		op.Key, row.Name, row.Path, text)
	return err
}

func deleteDocument(ctx context.Context, tx *sqlx.Tx, key string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE doc_key = ?", key); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM documents_fts WHERE doc_key = ?", key)
	return err
}

// Close is a no-op; the owning Store holds the connection.
func (s *indexSink) Close() error {
	return nil
}

// Document returns the stored document at key.
func (s *Store) Document(ctx context.Context, key string) (*domain.IndexDocument, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM documents WHERE doc_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	doc := row.toDomain()
	return &doc, nil
}

// DocumentCount returns the number of documents stored for a feed.
func (s *Store) DocumentCount(ctx context.Context, feedID string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM documents WHERE feed = ?", feedID); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Match returns the keys of documents whose text matches an FTS5 query.
func (s *Store) Match(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		"SELECT doc_key FROM documents_fts WHERE documents_fts MATCH ? ORDER BY rank LIMIT ?", query, limit)
	if err != nil {
		return nil, fmt.Errorf("matching documents: %w", err)
	}
	return keys, nil
}
