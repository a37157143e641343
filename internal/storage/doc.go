// Package storage defines the persistence substrate beneath the demo bank.
//
// The substrate is a durable key to document store. Documents are opaque
// byte bodies; encoding and validation belong to the bank store above it.
// Every document carries a monotonically increasing revision so that writers
// can detect lost updates with compare-and-swap semantics.
//
// Implementations live in subpackages:
//   - bbolt: a single-file BoltDB store (the default).
//   - sqlite: a SQLite store with embedded migrations.
//   - postgres: a PostgreSQL store for shared deployments.
//   - memory: an in-process store with fault injection for tests.
//
// # Error Types
//
//   - ErrNotFound: the key has never been written.
//   - ErrRevisionConflict: the expected revision did not match.
//   - ErrCorruptRecord: the backend could not read its own framing.
package storage
