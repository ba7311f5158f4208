// Package services implements the driving port interfaces.
// Services contain the core synchronisation logic and orchestrate
// calls to driven ports (adapters).
//
// The pieces of one cycle are:
//
//   - DeltaFetcher: paginates a ChangeFeed into a reconciled ChangeSet
//   - BatchedSink: queues sink operations and flushes at a threshold
//   - Synchroniser: runs the cycle state machine for one feed
//   - Scheduler: runs the synchronisers of all feeds in parallel
package services
