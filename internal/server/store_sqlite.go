package server

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"activityapi/internal/shared"
	"activityapi/internal/telemetry"
)

type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

func startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return telemetry.Tracer().Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "sqlite")),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *SQLiteStore) ListActiveStatus(ctx context.Context) (items []shared.StatusItem, err error) {
	ctx, span := startSpan(ctx, "ListActiveStatus")
	defer func() { endSpan(span, err) }()

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, section, title, COALESCE(description, ''), COALESCE(position, 0)
		 FROM status_items
		 WHERE is_active = 1
		 ORDER BY section, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query status items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it shared.StatusItem
		if err := rows.Scan(&it.ID, &it.Section, &it.Title, &it.Description, &it.Position); err != nil {
			return nil, fmt.Errorf("scan status item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) CreateStatus(ctx context.Context, item NewStatusItem) (err error) {
	ctx, span := startSpan(ctx, "CreateStatus")
	defer func() { endSpan(span, err) }()

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO status_items (section, title, description, position, is_active)
		 VALUES (?, ?, ?, ?, ?)`,
		string(item.Section), item.Title, item.Description, item.Position, boolToInt(item.IsActive),
	)
	if err != nil {
		return fmt.Errorf("insert status item: %w", err)
	}
	return nil
}

// UpdateStatus writes only the columns set in patch. Matching zero rows is
// not an error.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id int64, patch StatusPatch) (err error) {
	ctx, span := startSpan(ctx, "UpdateStatus")
	span.SetAttributes(attribute.Int64("status.id", id))
	defer func() { endSpan(span, err) }()

	var sets []string
	var args []any
	if patch.Section != nil {
		sets = append(sets, "section=?")
		args = append(args, string(*patch.Section))
	}
	if patch.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *patch.Description)
	}
	if patch.Position != nil {
		sets = append(sets, "position=?")
		args = append(args, *patch.Position)
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active=?")
		args = append(args, boolToInt(*patch.IsActive))
	}
	if len(sets) == 0 {
		return fmt.Errorf("update status item %d: empty patch", id)
	}
	args = append(args, id)

	_, err = s.DB.ExecContext(ctx,
		`UPDATE status_items SET `+strings.Join(sets, ", ")+` WHERE id=?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update status item %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) DeactivateStatus(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "DeactivateStatus")
	span.SetAttributes(attribute.Int64("status.id", id))
	defer func() { endSpan(span, err) }()

	if _, err = s.DB.ExecContext(ctx, `UPDATE status_items SET is_active=0 WHERE id=?`, id); err != nil {
		return fmt.Errorf("deactivate status item %d: %w", id, err)
	}
	return nil
}

// ReorderStatus assigns position=index to each id that belongs to section.
// Writes are issued one at a time without a transaction; a failure part way
// through leaves earlier writes in place.
func (s *SQLiteStore) ReorderStatus(ctx context.Context, section shared.Section, ids []int64) (err error) {
	ctx, span := startSpan(ctx, "ReorderStatus")
	span.SetAttributes(
		attribute.String("status.section", string(section)),
		attribute.Int("status.count", len(ids)),
	)
	defer func() { endSpan(span, err) }()

	stmt, err := s.DB.PrepareContext(ctx, `UPDATE status_items SET position=? WHERE id=? AND section=?`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for pos, id := range ids {
		if _, err = stmt.ExecContext(ctx, pos, id, string(section)); err != nil {
			return fmt.Errorf("reorder status item %d: %w", id, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListLogs(ctx context.Context, limit int) (entries []shared.LogEntry, err error) {
	ctx, span := startSpan(ctx, "ListLogs")
	span.SetAttributes(attribute.Int("logs.limit", limit))
	defer func() { endSpan(span, err) }()

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, type, message, strftime('%Y-%m-%dT%H:%M:%SZ', created_at)
		 FROM logs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	entries = []shared.LogEntry{}
	for rows.Next() {
		var e shared.LogEntry
		var createdAt sql.NullString
		if err := rows.Scan(&e.ID, &e.Type, &e.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		e.CreatedAt = createdAt.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) CreateLog(ctx context.Context, typ, message string) (err error) {
	ctx, span := startSpan(ctx, "CreateLog")
	defer func() { endSpan(span, err) }()

	if _, err = s.DB.ExecContext(ctx, `INSERT INTO logs (type, message) VALUES (?, ?)`, typ, message); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}
