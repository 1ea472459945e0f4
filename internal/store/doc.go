// Package store provides SQLite-backed durable storage for memento review logs.
//
// The store holds two tables:
//   - Items: question/answer pairs, immutable once created
//   - History: one row per completed review, append-only
//
// # Invariants
//
// Append-only history
//   - The only write on history is AppendHistory (a single INSERT)
//   - UPDATE and DELETE are rejected by triggers in schema.sql
//
// UTC instants
//   - Every instant is converted to UTC and stored in a fixed-width layout
//   - Lexical order of the stored text equals chronological order
//
// Deterministic latest entry
//   - Latest means greatest reviewed_at, ties broken by greater id
//   - Queries use ORDER BY reviewed_at DESC, id DESC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
