// Package engine implements the local-first synchronization engine:
// idempotent entity lifecycle, field-level Last-Write-Wins conflict
// resolution, and payload orchestration.
//
// # Model
//
// Entities (papers, authors, tags, folders, supplements, feeds, libraries,
// library shares) replicate across devices as three payload kinds: creates,
// deletes, and field changes. Each device stamps its writes with its own
// timestamp and device id; the engine never generates field-change
// timestamps.
//
// Conflicts resolve per (entity, field): the change with the greater
// timestamp wins, and on an exact tie the lexicographically greater device
// id wins. Replaying any set of changes in any order converges to the same
// state on every replica.
//
// Deletion is a tombstone, not a removal, and is unconditional once the
// entity is found live: delete-wins is simpler to reason about than merging
// an aliveness flag under LWW. Field merges keep landing on tombstoned rows
// so a future undelete sees the freshest values, but tombstoned entities are
// excluded from all live reads.
//
// # Concurrency
//
// Each operation is one storage transaction; the engine itself has no
// mutable state. Conflicting writers for the same (entity, field) are
// serialized by the store's single-writer connection, which makes the
// compare-then-write sequence atomic.
package engine
