package engine

import (
	"context"
	"fmt"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
	"github.com/Future-Scholars/paperlib-sync/internal/store"
)

// Entity lifecycle: idempotent creation and soft deletion, keeping the
// field-version rows in lock-step with the primary row.

// Create inserts a primary record and seeds one version row per tracked
// field, all in one transaction.
//
// Creation is idempotent: if a live record with the same id already exists,
// it is returned unchanged. A tombstoned record is likewise returned
// unchanged - soft deletion is terminal, replayed creates never resurrect.
// More than one live match is a storage invariant violation and surfaces as
// a MULTIPLE_RECORDS error.
//
// Entity ids are globally unique; the scope column partitions reads but is
// not part of an entity's identity. Reusing an id in a different scope is
// rejected rather than treated as a replay.
func (e *Engine) Create(ctx context.Context, kind model.EntityKind, p model.CreatePayload) (*model.Record, error) {
	d, err := model.Describe(kind)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	if err := validateCreate(d, p); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	defer tx.Rollback() // No-op if committed

	existing, err := store.FindRecords(ctx, tx, d, p.ID, "", false)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	for i := range existing {
		if existing[i].ScopeID != p.ScopeID {
			return nil, fmt.Errorf("create %s: id %s already exists in scope %q",
				kind, p.ID, existing[i].ScopeID)
		}
	}

	var live []model.Record
	for i := range existing {
		if !existing[i].Deleted() {
			live = append(live, existing[i])
		}
	}
	if len(live) > 1 {
		return nil, NewMultipleRecordsError(kind, p.ID, len(live))
	}
	if len(live) == 1 {
		// Replayed create: return the stored record untouched.
		return &live[0], nil
	}
	if len(existing) > 0 {
		// Tombstoned: the create is ignored, not resurrected.
		e.log.Debug("create ignored, entity tombstoned",
			"kind", kind, "id", p.ID)
		return &existing[0], nil
	}

	createdAt := p.CreatedAt
	if createdAt == 0 {
		createdAt = millis(e.clock.Now())
	}

	rec := &model.Record{
		Kind:              kind,
		ID:                p.ID,
		ScopeID:           p.ScopeID,
		Fields:            make(map[string]*string, len(d.Fields)),
		CreatedAt:         createdAt,
		CreatedByDeviceID: p.CreatedByDeviceID,
		UpdatedAt:         createdAt,
		UpdatedByDeviceID: p.CreatedByDeviceID,
	}
	for _, f := range d.Fields {
		rec.Fields[f.Name] = p.Fields[f.Name]
	}

	if err := store.InsertRecord(ctx, tx, d, rec); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	if err := store.SeedFieldVersions(ctx, tx, d, rec, p.Hashes); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	// Insertion is verified, not assumed.
	stored, err := store.FindRecords(ctx, tx, d, p.ID, p.ScopeID, true)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	if len(stored) == 0 {
		return nil, NewCreateFailedError(kind, p.ID)
	}
	if len(stored) > 1 {
		return nil, NewMultipleRecordsError(kind, p.ID, len(stored))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create %s: commit: %w", kind, err)
	}

	return &stored[0], nil
}

// Delete soft-deletes a record and cascades the tombstone onto all of its
// field-version rows, in one transaction.
//
// Unknown ids are tolerated: the entity may simply not have synced yet, or
// was already removed elsewhere; Delete returns (nil, nil) in that case.
// Deleting an already-tombstoned record returns it unchanged.
//
// Deletion does not consult timestamps: once the entity is found live, the
// delete applies unconditionally. Delete-wins is simpler to reason about
// than merging an aliveness flag under LWW.
func (e *Engine) Delete(ctx context.Context, kind model.EntityKind, p model.DeletePayload) (*model.Record, error) {
	d, err := model.Describe(kind)
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("delete %s: missing id", kind)
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", kind, err)
	}
	defer tx.Rollback()

	existing, err := store.FindRecords(ctx, tx, d, p.ID, p.ScopeID, false)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", kind, err)
	}

	var live []model.Record
	for i := range existing {
		if !existing[i].Deleted() {
			live = append(live, existing[i])
		}
	}
	if len(live) > 1 {
		return nil, NewMultipleRecordsError(kind, p.ID, len(live))
	}
	if len(live) == 0 {
		if len(existing) > 0 {
			// Already tombstoned: idempotent delete.
			return &existing[0], nil
		}
		return nil, nil
	}

	deletedAt := p.DeletedAt
	if deletedAt == 0 {
		deletedAt = millis(e.clock.Now())
	}

	if err := store.SoftDeleteRecord(ctx, tx, d, p.ID, p.ScopeID, deletedAt, p.DeletedByDeviceID); err != nil {
		return nil, fmt.Errorf("delete %s: %w", kind, err)
	}
	if _, err := store.TombstoneFieldVersions(ctx, tx, d, p.ID, deletedAt, p.DeletedByDeviceID); err != nil {
		return nil, fmt.Errorf("delete %s: %w", kind, err)
	}

	stored, err := store.FindRecords(ctx, tx, d, p.ID, p.ScopeID, false)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", kind, err)
	}
	if len(stored) == 0 {
		return nil, NewMergeFailedError(kind, p.ID, "")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete %s: commit: %w", kind, err)
	}

	return &stored[0], nil
}

// validateCreate checks the payload against the kind's descriptor before
// anything touches storage.
func validateCreate(d model.Descriptor, p model.CreatePayload) error {
	if p.ID == "" {
		return fmt.Errorf("missing id")
	}
	if p.CreatedByDeviceID == "" {
		return fmt.Errorf("missing createdByDeviceId")
	}
	if d.Scoped() && p.ScopeID == "" {
		return fmt.Errorf("scoped kind requires scopeId")
	}
	if !d.Scoped() && p.ScopeID != "" {
		return fmt.Errorf("unscoped kind cannot take scopeId")
	}
	for name := range p.Fields {
		if _, ok := d.Field(name); !ok {
			return fmt.Errorf("unknown field %q", name)
		}
	}
	for name, h := range p.Hashes {
		f, ok := d.Field(name)
		if !ok {
			return fmt.Errorf("hash for unknown field %q", name)
		}
		if !f.Opaque {
			return fmt.Errorf("hash for non-opaque field %q", name)
		}
		if h == "" {
			return fmt.Errorf("empty hash for field %q", name)
		}
	}
	return nil
}
