package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roastwatch"

	"github.com/google/uuid"
)

type ReadingSQLite struct {
	conn *sql.DB
}

func NewReadingSQLite(conn *sql.DB) *ReadingSQLite { return &ReadingSQLite{conn: conn} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `
		INSERT INTO readings (id, session_id, temp_f, taken_at, delta_from_start_f, delta_from_prev_f)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectReadingsSQL = `
		SELECT id, session_id, temp_f, taken_at, delta_from_start_f, delta_from_prev_f
		FROM readings WHERE session_id = ? ORDER BY taken_at ASC
	`
	updateReadingSQL = `
		UPDATE readings SET temp_f = ?, taken_at = ? WHERE id = ? AND session_id = ?
	`
	updateReadingDeltasSQL = `
		UPDATE readings SET delta_from_start_f = ?, delta_from_prev_f = ? WHERE id = ?
	`
	deleteReadingSQL = `DELETE FROM readings WHERE id = ? AND session_id = ?`
)

// Append inserts a reading; ID and TakenAt are defaulted when empty.
func (r *ReadingSQLite) Append(ctx context.Context, reading roastwatch.Reading) error {
	if reading.ID == "" {
		reading.ID = uuid.NewString()
	}
	if reading.TakenAt.IsZero() {
		reading.TakenAt = time.Now().UTC()
	} else {
		reading.TakenAt = reading.TakenAt.UTC()
	}

	_, err := r.conn.ExecContext(ctx, insertReadingSQL,
		reading.ID, reading.SessionID, reading.TempF, reading.TakenAt,
		reading.DeltaFromStartF, reading.DeltaFromPrevF,
	)
	if err != nil {
		return fmt.Errorf("insert reading %q: %w", reading.ID, err)
	}
	return nil
}

// ListBySession returns the session's readings ordered by timestamp.
func (r *ReadingSQLite) ListBySession(ctx context.Context, sessionID string) ([]roastwatch.Reading, error) {
	rows, err := r.conn.QueryContext(ctx, selectReadingsSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list readings for session %q: %w", sessionID, err)
	}
	defer rows.Close()

	out := make([]roastwatch.Reading, 0, 32)
	for rows.Next() {
		var reading roastwatch.Reading
		if err := rows.Scan(
			&reading.ID, &reading.SessionID, &reading.TempF, &reading.TakenAt,
			&reading.DeltaFromStartF, &reading.DeltaFromPrevF,
		); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		reading.TakenAt = reading.TakenAt.UTC()
		out = append(out, reading)
	}
	return out, rows.Err()
}

// Update rewrites the authoritative fields of one reading. Derived deltas are
// not touched here; callers follow up with SaveDeltas for the whole set.
func (r *ReadingSQLite) Update(ctx context.Context, reading roastwatch.Reading) error {
	res, err := r.conn.ExecContext(ctx, updateReadingSQL,
		reading.TempF, reading.TakenAt.UTC(), reading.ID, reading.SessionID,
	)
	if err != nil {
		return fmt.Errorf("update reading %q: %w", reading.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReadingSQLite) Delete(ctx context.Context, sessionID, id string) error {
	res, err := r.conn.ExecContext(ctx, deleteReadingSQL, id, sessionID)
	if err != nil {
		return fmt.Errorf("delete reading %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveDeltas rewrites the derived delta columns in one transaction, so the
// ordered set is never half-updated.
func (r *ReadingSQLite) SaveDeltas(ctx context.Context, readings []roastwatch.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin deltas transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, reading := range readings {
		if _, err := tx.ExecContext(ctx, updateReadingDeltasSQL,
			reading.DeltaFromStartF, reading.DeltaFromPrevF, reading.ID,
		); err != nil {
			return fmt.Errorf("update deltas for reading %q: %w", reading.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deltas transaction: %w", err)
	}
	return nil
}
