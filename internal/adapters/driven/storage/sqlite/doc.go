// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, accessed through sqlx. It implements two ports over a single database:
//
//   - CheckpointStore: One marker and statistics record per feed
//   - IndexSink: A local document table with an FTS5 full-text mirror
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory, named NNN_description.up.sql.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-river/data/river.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
