// Package metadata provides SQLite storage for the photo vault's
// relational state.
//
// It handles storage and retrieval of:
//   - Albums (name, date, optional manual position)
//   - Photo metadata (filename, content fingerprint, dimensions, size)
//   - The user-defined album ordering
//
// The database uses WAL mode for improved concurrent read performance
// and includes automatic schema initialization. All mutations are
// serialized behind a single writer lock and committed before the call
// returns, so callers get read-after-write consistency within the
// process. Relational invariants (per-album content uniqueness, total
// ordering of positions) are enforced by the schema and reported as
// typed faults, never silently ignored.
package metadata
