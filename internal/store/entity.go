package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// Primary-row access. All statements are built from the per-kind descriptor
// so every entity kind goes through the same code path.

// selectColumns returns the full column list for the kind's primary table,
// in scan order.
func selectColumns(d model.Descriptor) []string {
	cols := []string{"id"}
	if d.Scoped() {
		cols = append(cols, d.ScopeColumn)
	}
	for _, f := range d.Fields {
		cols = append(cols, f.Column)
	}
	cols = append(cols,
		"created_at", "created_by_device_id",
		"updated_at", "updated_by_device_id",
		"deleted_at", "deleted_by_device_id",
	)
	return cols
}

// FindRecords returns all rows matching the id (and scope, when given).
// With liveOnly set, tombstoned rows are excluded. Callers enforce the
// at-most-one-live-row invariant; the store reports what is there.
func FindRecords(ctx context.Context, q Querier, d model.Descriptor, id, scopeID string, liveOnly bool) ([]model.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?",
		strings.Join(selectColumns(d), ", "), d.Table)
	args := []any{id}
	if d.Scoped() && scopeID != "" {
		query += fmt.Sprintf(" AND %s = ?", d.ScopeColumn)
		args = append(args, scopeID)
	}
	if liveOnly {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY id ASC"

	return queryRecords(ctx, q, d, query, args...)
}

// ListRecords returns all live rows of a kind, optionally filtered by scope.
// Ordered by id for deterministic output.
func ListRecords(ctx context.Context, q Querier, d model.Descriptor, scopeID string) ([]model.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE deleted_at IS NULL",
		strings.Join(selectColumns(d), ", "), d.Table)
	var args []any
	if d.Scoped() && scopeID != "" {
		query += fmt.Sprintf(" AND %s = ?", d.ScopeColumn)
		args = append(args, scopeID)
	}
	query += " ORDER BY id ASC"

	return queryRecords(ctx, q, d, query, args...)
}

// InsertRecord inserts a primary row from a record snapshot.
func InsertRecord(ctx context.Context, q Querier, d model.Descriptor, rec *model.Record) error {
	cols := selectColumns(d)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	args := []any{rec.ID}
	if d.Scoped() {
		args = append(args, rec.ScopeID)
	}
	for _, f := range d.Fields {
		args = append(args, nullableString(rec.Fields[f.Name]))
	}
	args = append(args,
		rec.CreatedAt, rec.CreatedByDeviceID,
		rec.UpdatedAt, rec.UpdatedByDeviceID,
		nullableInt(rec.DeletedAt), nullableEmpty(rec.DeletedByDeviceID),
	)

	_, err := q.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.Table, strings.Join(cols, ", "), placeholders),
		args...)
	if err != nil {
		return fmt.Errorf("insert %s: %w", d.Table, err)
	}
	return nil
}

// UpdateRecordField writes one field's new value into the primary row and
// bumps the row's update attribution.
func UpdateRecordField(ctx context.Context, q Querier, d model.Descriptor, id string, f model.FieldDef, value *string, updatedAt int64, deviceID string) error {
	_, err := q.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s = ?, updated_at = ?, updated_by_device_id = ? WHERE id = ?",
			d.Table, f.Column),
		nullableString(value), updatedAt, deviceID, id)
	if err != nil {
		return fmt.Errorf("update %s.%s: %w", d.Table, f.Column, err)
	}
	return nil
}

// SoftDeleteRecord stamps the primary row's tombstone. A non-empty scopeID
// restricts the update to that scope so same-id rows in other scopes are
// untouched.
func SoftDeleteRecord(ctx context.Context, q Querier, d model.Descriptor, id, scopeID string, deletedAt int64, deviceID string) error {
	query := fmt.Sprintf("UPDATE %s SET deleted_at = ?, deleted_by_device_id = ?, updated_at = ?, updated_by_device_id = ? WHERE id = ? AND deleted_at IS NULL",
		d.Table)
	args := []any{deletedAt, deviceID, deletedAt, deviceID, id}
	if d.Scoped() && scopeID != "" {
		query += fmt.Sprintf(" AND %s = ?", d.ScopeColumn)
		args = append(args, scopeID)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete %s: %w", d.Table, err)
	}
	return nil
}

func queryRecords(ctx context.Context, q Querier, d model.Descriptor, query string, args ...any) ([]model.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", d.Table, err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows, d)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", d.Table, err)
	}

	if records == nil {
		records = []model.Record{}
	}

	return records, nil
}

// scanRecord scans one primary row in selectColumns order.
func scanRecord(rows *sql.Rows, d model.Descriptor) (model.Record, error) {
	rec := model.Record{Kind: d.Kind, Fields: make(map[string]*string, len(d.Fields))}

	var scope sql.NullString
	fieldVals := make([]sql.NullString, len(d.Fields))
	var deletedAt sql.NullInt64
	var deletedBy sql.NullString

	dest := []any{&rec.ID}
	if d.Scoped() {
		dest = append(dest, &scope)
	}
	for i := range fieldVals {
		dest = append(dest, &fieldVals[i])
	}
	dest = append(dest,
		&rec.CreatedAt, &rec.CreatedByDeviceID,
		&rec.UpdatedAt, &rec.UpdatedByDeviceID,
		&deletedAt, &deletedBy,
	)

	if err := rows.Scan(dest...); err != nil {
		return model.Record{}, fmt.Errorf("scan %s: %w", d.Table, err)
	}

	rec.ScopeID = scope.String
	for i, f := range d.Fields {
		if fieldVals[i].Valid {
			v := fieldVals[i].String
			rec.Fields[f.Name] = &v
		} else {
			rec.Fields[f.Name] = nil
		}
	}
	if deletedAt.Valid {
		v := deletedAt.Int64
		rec.DeletedAt = &v
	}
	rec.DeletedByDeviceID = deletedBy.String

	return rec, nil
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
