package driving

import "context"

// Scheduler runs the sync loops of all configured feeds.
type Scheduler interface {
	// Start runs every feed loop.
	// Blocks until context is cancelled or a loop cannot be started.
	Start(ctx context.Context) error

	// Stop gracefully stops all running loops.
	Stop() error

	// Statuses returns the status of every running loop.
	Statuses() []SyncStatus
}
