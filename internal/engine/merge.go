package engine

import (
	"context"
	"fmt"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
	"github.com/Future-Scholars/paperlib-sync/internal/store"
)

// Field-level Last-Write-Wins merging. One generic routine serves every
// entity kind, parameterized by the kind's descriptor.

// MergeField applies a single field-level change under LWW semantics, keyed
// by (entityId, field).
//
// The target record must already exist (merges never create; NO_SUCH_ENTITY
// otherwise) and the field must have a seeded version row (NO_SUCH_VERSION
// otherwise). The algorithm:
//
//  1. If the incoming value equals the stored value under normalized
//     equality, return the record unchanged. No version bump, no timestamp
//     comparison.
//  2. If the stored version row outranks the change, the change is stale:
//     return the record unchanged. Outranking is strictly-greater timestamp,
//     or equal timestamp with lexicographically greater device id - the
//     documented tie-break that makes replicas converge identically
//     regardless of replay order.
//  3. Otherwise update the primary row's field and the version row's value
//     and provenance, in the same transaction, and return the re-read
//     record.
//
// Merges against a tombstoned entity still execute at the storage layer
// (future undelete keeps the freshest values) but the entity stays excluded
// from live reads.
func (e *Engine) MergeField(ctx context.Context, kind model.EntityKind, ch model.FieldChange) (*model.Record, error) {
	d, err := model.Describe(kind)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if ch.EntityID == "" {
		return nil, fmt.Errorf("merge %s: missing entityId", kind)
	}
	f, ok := d.Field(ch.Field)
	if !ok {
		return nil, NewNoSuchVersionError(kind, ch.EntityID, ch.Field)
	}
	if f.Opaque && ch.Value != nil && ch.Hash == "" {
		return nil, fmt.Errorf("merge %s.%s: opaque field requires content hash", kind, ch.Field)
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", kind, err)
	}
	defer tx.Rollback() // No-op if committed

	rec, err := e.findMergeTarget(ctx, tx, d, ch.EntityID)
	if err != nil {
		return nil, err
	}

	version, err := store.FindFieldVersion(ctx, tx, d, ch.EntityID, ch.Field)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", kind, err)
	}
	if version == nil {
		return nil, NewNoSuchVersionError(kind, ch.EntityID, ch.Field)
	}

	equal, err := model.Equal(f.Type, ch.Value, rec.Fields[ch.Field])
	if err != nil {
		return nil, fmt.Errorf("merge %s.%s: %w", kind, ch.Field, err)
	}
	if equal {
		// Same value, nothing to arbitrate.
		return rec, nil
	}

	if outranks(version.Timestamp, version.DeviceID, ch.Timestamp, ch.DeviceID) {
		// Stale change: expected outcome of the LWW policy, not an error.
		e.log.Debug("stale change dropped",
			"kind", kind, "id", ch.EntityID, "field", ch.Field,
			"incoming_ts", ch.Timestamp, "stored_ts", version.Timestamp,
			"incoming_device", ch.DeviceID, "stored_device", version.DeviceID)
		return rec, nil
	}

	// Primary row and version row move together; diverging them is a
	// contract violation.
	if err := store.UpdateRecordField(ctx, tx, d, ch.EntityID, f, ch.Value, ch.Timestamp, ch.DeviceID); err != nil {
		return nil, fmt.Errorf("merge %s: %w", kind, err)
	}
	if err := store.UpdateFieldVersion(ctx, tx, d, &ch); err != nil {
		return nil, fmt.Errorf("merge %s: %w", kind, err)
	}

	stored, err := store.FindRecords(ctx, tx, d, ch.EntityID, "", false)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", kind, err)
	}
	if len(stored) == 0 {
		return nil, NewMergeFailedError(kind, ch.EntityID, ch.Field)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("merge %s: commit: %w", kind, err)
	}

	return &stored[0], nil
}

// MergeLink applies a membership change to a paper join table under the same
// LWW rules as field merges, keyed by (paperId, targetId). A removal flips
// the row's op rather than deleting it, so late-arriving adds from other
// devices resolve instead of resurrecting.
func (e *Engine) MergeLink(ctx context.Context, ch model.LinkChange) (*model.Link, error) {
	if !model.ValidLink(ch.Link) {
		return nil, fmt.Errorf("merge link: unknown link kind %q", ch.Link)
	}
	if ch.PaperID == "" || ch.TargetID == "" {
		return nil, fmt.Errorf("merge link %s: missing paperId or targetId", ch.Link)
	}
	if ch.Op != model.LinkAdd && ch.Op != model.LinkRemove {
		return nil, fmt.Errorf("merge link %s: unknown op %q", ch.Link, ch.Op)
	}

	paperDesc, err := model.Describe(model.KindPaper)
	if err != nil {
		return nil, err
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("merge link %s: %w", ch.Link, err)
	}
	defer tx.Rollback()

	// The paper must have been created; the link target may still be in
	// flight and is not checked.
	if _, err := e.findMergeTarget(ctx, tx, paperDesc, ch.PaperID); err != nil {
		return nil, err
	}

	current, err := store.FindLink(ctx, tx, ch.Link, ch.PaperID, ch.TargetID)
	if err != nil {
		return nil, fmt.Errorf("merge link %s: %w", ch.Link, err)
	}

	if current != nil {
		if current.Op == ch.Op {
			// Membership already in the requested state.
			return current, nil
		}
		if outranks(current.Timestamp, current.DeviceID, ch.Timestamp, ch.DeviceID) {
			e.log.Debug("stale link change dropped",
				"link", ch.Link, "paper", ch.PaperID, "target", ch.TargetID,
				"incoming_ts", ch.Timestamp, "stored_ts", current.Timestamp)
			return current, nil
		}
	}

	next := &model.Link{
		PaperID:   ch.PaperID,
		TargetID:  ch.TargetID,
		Op:        ch.Op,
		Timestamp: ch.Timestamp,
		DeviceID:  ch.DeviceID,
	}
	if err := store.UpsertLink(ctx, tx, ch.Link, next); err != nil {
		return nil, fmt.Errorf("merge link %s: %w", ch.Link, err)
	}

	stored, err := store.FindLink(ctx, tx, ch.Link, ch.PaperID, ch.TargetID)
	if err != nil {
		return nil, fmt.Errorf("merge link %s: %w", ch.Link, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("merge link %s (%s, %s): upserted row not found on re-read",
			ch.Link, ch.PaperID, ch.TargetID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("merge link %s: commit: %w", ch.Link, err)
	}

	return stored, nil
}

// findMergeTarget resolves the record a merge applies to: the live row if
// one exists, otherwise the tombstoned row (merges still land at the
// storage layer after deletion).
func (e *Engine) findMergeTarget(ctx context.Context, q store.Querier, d model.Descriptor, id string) (*model.Record, error) {
	rows, err := store.FindRecords(ctx, q, d, id, "", false)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", d.Kind, err)
	}
	if len(rows) == 0 {
		return nil, NewNoSuchEntityError(d.Kind, id)
	}

	var live []model.Record
	for i := range rows {
		if !rows[i].Deleted() {
			live = append(live, rows[i])
		}
	}
	if len(live) > 1 {
		return nil, NewMultipleRecordsError(d.Kind, id, len(live))
	}
	if len(live) == 1 {
		return &live[0], nil
	}
	return &rows[0], nil
}

// outranks decides whether the stored provenance beats the incoming change.
// Strictly greater timestamp wins; on an exact timestamp tie the
// lexicographically greater device id wins. Equal timestamp and equal device
// id is a replay of the same change and does not outrank, so replays apply
// idempotently.
func outranks(storedTS int64, storedDevice string, inTS int64, inDevice string) bool {
	if storedTS != inTS {
		return storedTS > inTS
	}
	return storedDevice > inDevice
}
