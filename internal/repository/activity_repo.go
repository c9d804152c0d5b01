package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"roastwatch"

	"github.com/google/uuid"
)

type ActivitySQLite struct {
	conn *sql.DB
}

func NewActivitySQLite(conn *sql.DB) *ActivitySQLite { return &ActivitySQLite{conn: conn} }

var _ ActivityRepo = (*ActivitySQLite)(nil)

const insertActivitySQL = `
	INSERT INTO activity_log (entry_id, session_id, occurred_at, type, message, meta)
	VALUES (?, ?, ?, ?, ?, ?)
`

// Append inserts a log entry; EntryID and OccurredAt are defaulted when empty.
func (r *ActivitySQLite) Append(ctx context.Context, e roastwatch.ActivityEntry) error {
	if e.EntryID == "" {
		e.EntryID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.conn.ExecContext(ctx, insertActivitySQL,
		e.EntryID, e.SessionID, e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Type)), e.Message, metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert activity entry %q: %w", e.EntryID, err)
	}
	return nil
}

// List returns a session's entries filtered by [from, to] (inclusive, zero
// means unbounded) and/or type, ordered ascending.
func (r *ActivitySQLite) List(ctx context.Context, sessionID string, from, to time.Time, typ string) ([]roastwatch.ActivityEntry, error) {
	conds := []string{"session_id = ?"}
	args := []any{sessionID}

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

	q := `SELECT entry_id, session_id, occurred_at, type, message, meta FROM activity_log WHERE ` +
		strings.Join(conds, " AND ") + " ORDER BY occurred_at ASC"

	rows, err := r.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity for session %q: %w", sessionID, err)
	}
	defer rows.Close()

	out := make([]roastwatch.ActivityEntry, 0, 32)
	for rows.Next() {
		var (
			e       roastwatch.ActivityEntry
			metaStr sql.NullString
		)
		if err := rows.Scan(&e.EntryID, &e.SessionID, &e.OccurredAt, &e.Type, &e.Message, &metaStr); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		e.OccurredAt = e.OccurredAt.UTC()
		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				e.Metadata = v
			} else {
				e.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
