package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"expense_tracker/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const insertEventSQL = `
		INSERT INTO expense_events (id, occurred_at, type, user_id, expense_id, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.ExpenseEvent) error {
	e = normalizeEvent(e)

	metaPtr, err := marshalMetadata(e.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt,
		e.Type,
		e.UserID,
		e.ExpenseID,
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("append %s event for expense %q: %w", e.Type, e.ExpenseID, err)
	}
	return nil
}

// List returns the user's events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, userID string, from, to time.Time, typ string) ([]models.ExpenseEvent, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, user_id, expense_id, message, meta FROM expense_events`
	q += " WHERE " + strings.Join(conds, " AND ")
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ExpenseEvent, 0, 64)
	for rows.Next() {
		var ev models.ExpenseEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.UserID, &ev.ExpenseID, &ev.Description, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		ev.Metadata = unmarshalMetadata(metaStr)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeEvent(e models.ExpenseEvent) models.ExpenseEvent {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}
	e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
	return e
}

// marshalMetadata encodes metadata as JSON; nil metadata is stored as NULL.
func marshalMetadata(meta any) (*string, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal event metadata: %w", err)
	}
	s := string(b)
	return &s, nil
}

func unmarshalMetadata(metaStr sql.NullString) any {
	if !metaStr.Valid || metaStr.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(metaStr.String), &v); err != nil {
		return metaStr.String // keep raw if malformed
	}
	return v
}

func sqlNull(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
