package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// A checkpoint store returns it on first run to mean "start from the beginning".
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or index backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSyncInProgress indicates a cycle is already running for the feed.
	ErrSyncInProgress = errors.New("sync in progress")

	// Cycle Errors.

	// ErrFetchFailed indicates a failure while paginating the change feed.
	// The cycle is aborted and the marker is left unchanged.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrMarkerExpired indicates the remote no longer accepts the stored marker.
	// A full resync from the empty marker is required.
	ErrMarkerExpired = errors.New("position marker expired")

	// ErrSinkWriteFailed indicates a whole batch could not be delivered to the sink.
	ErrSinkWriteFailed = errors.New("sink write failed")

	// ErrSinkWritePartial indicates some operations in a delivered batch were rejected.
	ErrSinkWritePartial = errors.New("sink write partially failed")

	// ErrCheckpointUnavailable indicates the checkpoint store could not be read or written.
	ErrCheckpointUnavailable = errors.New("checkpoint unavailable")

	// ErrContentUnavailable indicates the content of a single file could not be fetched.
	ErrContentUnavailable = errors.New("content unavailable")

	// Connector Errors.

	// ErrAuthRequired indicates the connector requires authentication but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the authentication has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")
)
