package domain

import "time"

// CycleStats counts what one cycle did. Used for observability only.
type CycleStats struct {
	// Added counts upserts queued (new or updated files).
	Added int

	// Deleted counts deletes queued.
	Deleted int

	// Skipped counts entries rejected by the filter, the root scope or the size limit.
	Skipped int

	// Failed counts per-file content failures and sink rejections.
	Failed int
}

// Merge adds other to s.
func (s *CycleStats) Merge(other CycleStats) {
	s.Added += other.Added
	s.Deleted += other.Deleted
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// Checkpoint is the durable record of a feed's progress.
// It is always replaced as a whole.
type Checkpoint struct {
	// FeedID identifies the feed.
	FeedID string

	// Marker is the opaque remote position to resume from.
	Marker string

	// Stats are the counters of the cycle that produced Marker.
	Stats CycleStats

	// LastSync is when the checkpoint was written.
	LastSync time.Time
}
