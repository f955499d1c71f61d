// Package store provides SQLite-backed durable storage for synchronized
// entity records.
//
// Layout per entity kind:
//   - Primary table: the merged business fields plus creation/update/delete
//     attribution (device id and millisecond timestamp for each)
//   - Field-version table: one row per (entity, field) holding the current
//     value's provenance (timestamp, writer device, optional content hash),
//     used to arbitrate conflicts
//
// Papers additionally have join tables (paper_authors, paper_tags,
// paper_folders) whose membership rows are themselves conflict-resolved
// rather than overwritten.
//
// # Contract
//
// The field-version tables are the single source of truth for conflict
// metadata. They are written only inside the merge engine's transaction;
// other components read primary tables freely but never write.
//
// A field's value in the primary table always equals the value in its
// version row; both are updated in the same statement batch inside one
// transaction.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//   - MaxOpenConns=1: single writer; serializes compare-then-write merges
package store
