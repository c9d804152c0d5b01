package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roastwatch"

	"github.com/google/uuid"
)

type OvenEventSQLite struct {
	conn *sql.DB
}

func NewOvenEventSQLite(conn *sql.DB) *OvenEventSQLite { return &OvenEventSQLite{conn: conn} }

var _ OvenEventRepo = (*OvenEventSQLite)(nil)

const (
	insertOvenEventSQL = `
		INSERT INTO oven_events (id, session_id, set_temp_f, occurred_at, prev_temp_f)
		VALUES (?, ?, ?, ?, ?)
	`
	selectOvenEventsSQL = `
		SELECT id, session_id, set_temp_f, occurred_at, prev_temp_f
		FROM oven_events WHERE session_id = ? ORDER BY occurred_at ASC
	`
	updateOvenEventPrevSQL = `UPDATE oven_events SET prev_temp_f = ? WHERE id = ?`
	deleteOvenEventSQL     = `DELETE FROM oven_events WHERE id = ? AND session_id = ?`
)

// Append inserts an oven event; ID and OccurredAt are defaulted when empty.
func (r *OvenEventSQLite) Append(ctx context.Context, e roastwatch.OvenEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	_, err := r.conn.ExecContext(ctx, insertOvenEventSQL,
		e.ID, e.SessionID, e.SetTempF, e.OccurredAt, prevTempValue(e.PrevTempF),
	)
	if err != nil {
		return fmt.Errorf("insert oven event %q: %w", e.ID, err)
	}
	return nil
}

// ListBySession returns the session's oven events ordered by timestamp.
func (r *OvenEventSQLite) ListBySession(ctx context.Context, sessionID string) ([]roastwatch.OvenEvent, error) {
	rows, err := r.conn.QueryContext(ctx, selectOvenEventsSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list oven events for session %q: %w", sessionID, err)
	}
	defer rows.Close()

	out := make([]roastwatch.OvenEvent, 0, 8)
	for rows.Next() {
		var (
			e    roastwatch.OvenEvent
			prev sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.SetTempF, &e.OccurredAt, &prev); err != nil {
			return nil, fmt.Errorf("scan oven event: %w", err)
		}
		e.OccurredAt = e.OccurredAt.UTC()
		if prev.Valid {
			v := prev.Float64
			e.PrevTempF = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *OvenEventSQLite) Delete(ctx context.Context, sessionID, id string) error {
	res, err := r.conn.ExecContext(ctx, deleteOvenEventSQL, id, sessionID)
	if err != nil {
		return fmt.Errorf("delete oven event %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SavePrevTemps rewrites the denormalized previous-setting column in one
// transaction after an earlier event was edited or removed.
func (r *OvenEventSQLite) SavePrevTemps(ctx context.Context, events []roastwatch.OvenEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin prev-temps transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range events {
		if _, err := tx.ExecContext(ctx, updateOvenEventPrevSQL, prevTempValue(e.PrevTempF), e.ID); err != nil {
			return fmt.Errorf("update prev temp for oven event %q: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prev-temps transaction: %w", err)
	}
	return nil
}

func prevTempValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
