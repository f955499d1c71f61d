package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// Field-version access. The version table is the single source of truth for
// conflict metadata; only the merge engine's compare-then-write transaction
// is allowed to mutate it.

const versionColumns = "field, value, timestamp, device_id, hash, created_at, created_by_device_id, deleted_at, deleted_by_device_id"

// SeedFieldVersions inserts one version row per tracked field of the kind,
// stamped with the record's creation attribution. Runs inside the create
// transaction so a primary row and its versions appear atomically.
func SeedFieldVersions(ctx context.Context, q Querier, d model.Descriptor, rec *model.Record, hashes map[string]string) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)",
		d.VersionTable, d.FKColumn, versionColumns)

	for _, f := range d.Fields {
		var hash any
		if h, ok := hashes[f.Name]; ok && f.Opaque {
			hash = h
		}
		_, err := q.ExecContext(ctx, query,
			rec.ID, f.Name, nullableString(rec.Fields[f.Name]),
			rec.CreatedAt, rec.CreatedByDeviceID, hash,
			rec.CreatedAt, rec.CreatedByDeviceID)
		if err != nil {
			return fmt.Errorf("seed %s.%s: %w", d.VersionTable, f.Name, err)
		}
	}
	return nil
}

// FindFieldVersion returns the version row for (entity, field), or nil if
// none exists.
func FindFieldVersion(ctx context.Context, q Querier, d model.Descriptor, entityID, field string) (*model.FieldVersion, error) {
	row := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ? AND field = ?",
			d.FKColumn, versionColumns, d.VersionTable, d.FKColumn),
		entityID, field)

	v, err := scanFieldVersion(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s (%s, %s): %w", d.VersionTable, entityID, field, err)
	}
	return &v, nil
}

// UpdateFieldVersion overwrites the version row with the winning change's
// value and provenance. The caller has already decided the change wins.
func UpdateFieldVersion(ctx context.Context, q Querier, d model.Descriptor, ch *model.FieldChange) error {
	res, err := q.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET value = ?, timestamp = ?, device_id = ?, hash = ?, created_at = ?, created_by_device_id = ? WHERE %s = ? AND field = ?",
			d.VersionTable, d.FKColumn),
		nullableString(ch.Value), ch.Timestamp, ch.DeviceID, nullableEmpty(ch.Hash),
		ch.CreatedAt, ch.CreatedByDeviceID,
		ch.EntityID, ch.Field)
	if err != nil {
		return fmt.Errorf("update %s (%s, %s): %w", d.VersionTable, ch.EntityID, ch.Field, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: rows affected: %w", d.VersionTable, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s (%s, %s): no version row", d.VersionTable, ch.EntityID, ch.Field)
	}
	return nil
}

// TombstoneFieldVersions stamps every not-yet-deleted version row of an
// entity with the delete attribution. This is the explicit fan-out half of a
// soft delete; it returns the number of rows stamped so callers and tests
// can observe the cascade.
func TombstoneFieldVersions(ctx context.Context, q Querier, d model.Descriptor, entityID string, deletedAt int64, deviceID string) (int64, error) {
	res, err := q.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET deleted_at = ?, deleted_by_device_id = ? WHERE %s = ? AND deleted_at IS NULL",
			d.VersionTable, d.FKColumn),
		deletedAt, deviceID, entityID)
	if err != nil {
		return 0, fmt.Errorf("tombstone %s: %w", d.VersionTable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("tombstone %s: rows affected: %w", d.VersionTable, err)
	}
	return n, nil
}

// ListFieldVersions returns all version rows for an entity, ordered by field
// name for deterministic output.
func ListFieldVersions(ctx context.Context, q Querier, d model.Descriptor, entityID string) ([]model.FieldVersion, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ? ORDER BY field ASC",
			d.FKColumn, versionColumns, d.VersionTable, d.FKColumn),
		entityID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", d.VersionTable, err)
	}
	defer rows.Close()

	var versions []model.FieldVersion
	for rows.Next() {
		v, err := scanFieldVersion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", d.VersionTable, err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", d.VersionTable, err)
	}

	if versions == nil {
		versions = []model.FieldVersion{}
	}

	return versions, nil
}

// scanFieldVersion scans one version row via the given Scan function, so it
// serves both sql.Row and sql.Rows.
func scanFieldVersion(scan func(...any) error) (model.FieldVersion, error) {
	var v model.FieldVersion
	var value, hash, deletedBy sql.NullString
	var deletedAt sql.NullInt64

	err := scan(
		&v.EntityID, &v.Field, &value, &v.Timestamp, &v.DeviceID, &hash,
		&v.CreatedAt, &v.CreatedByDeviceID, &deletedAt, &deletedBy,
	)
	if err != nil {
		return model.FieldVersion{}, err
	}

	if value.Valid {
		s := value.String
		v.Value = &s
	}
	v.Hash = hash.String
	if deletedAt.Valid {
		ts := deletedAt.Int64
		v.DeletedAt = &ts
	}
	v.DeletedByDeviceID = deletedBy.String

	return v, nil
}
