// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ChangeFeed: Paginated remote change feed plus content download
//   - ChangeFeedFactory: Builds a ChangeFeed for a configured feed
//   - IndexSink: Batched upsert/delete writes into the search index
//   - CheckpointStore: Durable marker and statistics per feed
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
