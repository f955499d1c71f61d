package engine

import (
	"context"
	"fmt"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
	"github.com/Future-Scholars/paperlib-sync/internal/store"
)

// Live-record reads for callers (CLI, replication feeds). Tombstoned
// entities never appear here; their rows remain in storage for convergent
// deletion.

// Get returns the live record with the given id, or nil if there is none.
// More than one live match is a storage invariant violation.
func (e *Engine) Get(ctx context.Context, kind model.EntityKind, id, scopeID string) (*model.Record, error) {
	d, err := model.Describe(kind)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}

	rows, err := store.FindRecords(ctx, e.store.DB(), d, id, scopeID, true)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	if len(rows) > 1 {
		return nil, NewMultipleRecordsError(kind, id, len(rows))
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// List returns all live records of a kind, optionally filtered by scope,
// ordered by id.
func (e *Engine) List(ctx context.Context, kind model.EntityKind, scopeID string) ([]model.Record, error) {
	d, err := model.Describe(kind)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	rows, err := store.ListRecords(ctx, e.store.DB(), d, scopeID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return rows, nil
}

// History returns an entity's field-version rows, ordered by field name.
// Unlike Get, History also serves tombstoned entities: provenance outlives
// deletion.
func (e *Engine) History(ctx context.Context, kind model.EntityKind, id string) ([]model.FieldVersion, error) {
	d, err := model.Describe(kind)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	versions, err := store.ListFieldVersions(ctx, e.store.DB(), d, id)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", kind, err)
	}
	return versions, nil
}

// Links returns a paper's live membership rows for one join table.
func (e *Engine) Links(ctx context.Context, link model.LinkKind, paperID string) ([]model.Link, error) {
	links, err := store.ListLinks(ctx, e.store.DB(), link, paperID, true)
	if err != nil {
		return nil, fmt.Errorf("links %s: %w", link, err)
	}
	return links, nil
}
