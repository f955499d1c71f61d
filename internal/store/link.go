package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// Join-table membership rows. Each row keeps the last winning op with its
// provenance; the merge engine arbitrates before calling UpsertLink.

// linkTable maps a link kind to its table and target column.
func linkTable(k model.LinkKind) (table, targetColumn string, err error) {
	switch k {
	case model.LinkAuthors:
		return "paper_authors", "author_id", nil
	case model.LinkTags:
		return "paper_tags", "tag_id", nil
	case model.LinkFolders:
		return "paper_folders", "folder_id", nil
	}
	return "", "", fmt.Errorf("unknown link kind %q", k)
}

// FindLink returns the membership row for (paper, target), or nil if none
// has been recorded yet.
func FindLink(ctx context.Context, q Querier, k model.LinkKind, paperID, targetID string) (*model.Link, error) {
	table, target, err := linkTable(k)
	if err != nil {
		return nil, err
	}

	var l model.Link
	var op string
	err = q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT paper_id, %s, op, timestamp, device_id FROM %s WHERE paper_id = ? AND %s = ?",
			target, table, target),
		paperID, targetID,
	).Scan(&l.PaperID, &l.TargetID, &op, &l.Timestamp, &l.DeviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s (%s, %s): %w", table, paperID, targetID, err)
	}

	l.Op = model.LinkOp(op)
	return &l, nil
}

// UpsertLink writes the winning membership state for (paper, target).
func UpsertLink(ctx context.Context, q Querier, k model.LinkKind, l *model.Link) error {
	table, target, err := linkTable(k)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx,
		fmt.Sprintf(`
			INSERT INTO %s (paper_id, %s, op, timestamp, device_id)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(paper_id, %s) DO UPDATE SET op = excluded.op, timestamp = excluded.timestamp, device_id = excluded.device_id
		`, table, target, target),
		l.PaperID, l.TargetID, string(l.Op), l.Timestamp, l.DeviceID)
	if err != nil {
		return fmt.Errorf("upsert %s (%s, %s): %w", table, l.PaperID, l.TargetID, err)
	}
	return nil
}

// ListLinks returns a paper's membership rows, ordered by target id.
// With liveOnly set, rows whose last winning op is a removal are excluded.
func ListLinks(ctx context.Context, q Querier, k model.LinkKind, paperID string, liveOnly bool) ([]model.Link, error) {
	table, target, err := linkTable(k)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT paper_id, %s, op, timestamp, device_id FROM %s WHERE paper_id = ?",
		target, table)
	if liveOnly {
		query += " AND op = 'add'"
	}
	query += fmt.Sprintf(" ORDER BY %s ASC", target)

	rows, err := q.QueryContext(ctx, query, paperID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var links []model.Link
	for rows.Next() {
		var l model.Link
		var op string
		if err := rows.Scan(&l.PaperID, &l.TargetID, &op, &l.Timestamp, &l.DeviceID); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		l.Op = model.LinkOp(op)
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	if links == nil {
		links = []model.Link{}
	}

	return links, nil
}
