package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// checkpointStore implements driven.CheckpointStore.
type checkpointStore struct {
	store *Store
}

var _ driven.CheckpointStore = (*checkpointStore)(nil)

type checkpointRow struct {
	FeedID     string `db:"feed_id"`
	Marker     string `db:"marker"`
	Added      int    `db:"doc_added"`
	Deleted    int    `db:"doc_deleted"`
	Skipped    int    `db:"doc_skipped"`
	Failed     int    `db:"doc_failed"`
	LastSyncMs int64  `db:"last_sync_ms"`
}

func (r checkpointRow) toDomain() domain.Checkpoint {
	cp := domain.Checkpoint{
		FeedID: r.FeedID,
		Marker: r.Marker,
		Stats: domain.CycleStats{
			Added:   r.Added,
			Deleted: r.Deleted,
			Skipped: r.Skipped,
			Failed:  r.Failed,
		},
	}
	if r.LastSyncMs > 0 {
		cp.LastSync = time.UnixMilli(r.LastSyncMs).UTC()
	}
	return cp
}

const checkpointColumns = `feed_id, marker, doc_added, doc_deleted, doc_skipped, doc_failed, last_sync_ms`

// Save stores or replaces the checkpoint of a feed.
func (s *checkpointStore) Save(ctx context.Context, cp domain.Checkpoint) error {
	var lastSync int64
	if !cp.LastSync.IsZero() {
		lastSync = cp.LastSync.UnixMilli()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO checkpoints (`+checkpointColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(feed_id) DO UPDATE SET
			marker = excluded.marker,
			doc_added = excluded.doc_added,
			doc_deleted = excluded.doc_deleted,
			doc_skipped = excluded.doc_skipped,
			doc_failed = excluded.doc_failed,
			last_sync_ms = excluded.last_sync_ms
	`, cp.FeedID, cp.Marker, cp.Stats.Added, cp.Stats.Deleted, cp.Stats.Skipped, cp.Stats.Failed, lastSync)
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// Load retrieves the checkpoint of a feed.
func (s *checkpointStore) Load(ctx context.Context, feedID string) (*domain.Checkpoint, error) {
	var row checkpointRow
	err := s.store.db.GetContext(ctx, &row, `SELECT `+checkpointColumns+` FROM checkpoints WHERE feed_id = ?`, feedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint: %w", err)
	}
	cp := row.toDomain()
	return &cp, nil
}

// Delete removes the checkpoint of a feed.
func (s *checkpointStore) Delete(ctx context.Context, feedID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM checkpoints WHERE feed_id = ?", feedID)
	if err != nil {
		return fmt.Errorf("deleting checkpoint: %w", err)
	}
	return nil
}

// List returns all checkpoints ordered by feed ID.
func (s *checkpointStore) List(ctx context.Context) ([]domain.Checkpoint, error) {
	var rows []checkpointRow
	if err := s.store.db.SelectContext(ctx, &rows, `SELECT `+checkpointColumns+` FROM checkpoints ORDER BY feed_id`); err != nil {
		return nil, fmt.Errorf("listing checkpoints: %w", err)
	}
	out := make([]domain.Checkpoint, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}
