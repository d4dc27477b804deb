// Package store provides SQLite-backed durable storage for build records.
//
// Every pipeline run can be persisted as one build:
//   - Builds: one row per run, ordered by a logical seq
//   - Verb records: the ledger of verb calls across the context tree
//   - Configs: each finished config with its content digest
//
// # Ordering
//
// All ordering uses seq INTEGER columns, never timestamps. Queries order by
// seq (then by a stable secondary key), so reads are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// A build and everything it references are written in one transaction.
package store
