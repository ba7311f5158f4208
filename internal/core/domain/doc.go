// Package domain defines the core entities of the change-feed synchroniser.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Feed: A configured remote tree mirrored into the index
//   - PathEntry: Flat metadata for one remote object
//   - ChangeSet: The reconciled result of one fetch cycle
//   - Checkpoint: The durable marker and statistics for a feed
//   - FilterSpec: Include/exclude glob patterns
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
