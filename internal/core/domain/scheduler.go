package domain

import "time"

// LoopState is the position of a feed's sync loop in its cycle.
type LoopState int

const (
	// StateIdle is between cycles, before the checkpoint is loaded.
	StateIdle LoopState = iota

	// StateFetching pulls change pages from the remote.
	StateFetching

	// StateReconciling turns the change set into sink operations.
	StateReconciling

	// StateWriting flushes queued operations to the sink.
	StateWriting

	// StateCheckpointing persists the new marker.
	StateCheckpointing

	// StateSleeping waits for the next cycle.
	StateSleeping

	// StateStopped is terminal.
	StateStopped
)

var loopStateNames = map[LoopState]string{
	StateIdle:          "idle",
	StateFetching:      "fetching",
	StateReconciling:   "reconciling",
	StateWriting:       "writing",
	StateCheckpointing: "checkpointing",
	StateSleeping:      "sleeping",
	StateStopped:       "stopped",
}

// String returns the lower-case state name.
func (s LoopState) String() string {
	if name, ok := loopStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// CycleResult represents the outcome of one cycle.
type CycleResult struct {
	// FeedID identifies which feed was synced.
	FeedID string

	// StartedAt is when the cycle started.
	StartedAt time.Time

	// EndedAt is when the cycle completed.
	EndedAt time.Time

	// Marker is the marker saved by the cycle, empty if it failed.
	Marker string

	// Stats are the cycle counters.
	Stats CycleStats

	// Error contains the error message if the cycle failed.
	Error string
}

// Success returns true if the cycle advanced the checkpoint.
func (r CycleResult) Success() bool {
	return r.Error == ""
}

// Duration returns how long the cycle took.
func (r CycleResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
