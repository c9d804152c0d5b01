package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roastwatch"

	"github.com/google/uuid"
)

type SessionSQLite struct {
	conn *sql.DB
}

func NewSessionSQLite(conn *sql.DB) *SessionSQLite { return &SessionSQLite{conn: conn} }

var _ SessionRepo = (*SessionSQLite)(nil)

const (
	insertSessionSQL = `
		INSERT INTO cook_sessions (id, user_id, name, target_temp_f, serve_at, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectSessionSQL = `
		SELECT id, user_id, name, target_temp_f, serve_at, active, created_at
		FROM cook_sessions WHERE id = ?
	`
	selectSessionsByUserSQL = `
		SELECT id, user_id, name, target_temp_f, serve_at, active, created_at
		FROM cook_sessions WHERE user_id = ? ORDER BY created_at DESC
	`
	selectActiveSessionsSQL = `
		SELECT id, user_id, name, target_temp_f, serve_at, active, created_at
		FROM cook_sessions WHERE active = 1 ORDER BY created_at
	`
	updateSessionSQL = `
		UPDATE cook_sessions SET name = ?, target_temp_f = ?, serve_at = ?, active = ?
		WHERE id = ?
	`
)

// Create inserts a session; ID and CreatedAt are defaulted when empty.
func (r *SessionSQLite) Create(ctx context.Context, s roastwatch.CookSession) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	} else {
		s.CreatedAt = s.CreatedAt.UTC()
	}

	_, err := r.conn.ExecContext(ctx, insertSessionSQL,
		s.ID, s.UserID, s.Name, s.TargetTempF, serveAtValue(s.ServeAt), s.Active, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session %q: %w", s.ID, err)
	}
	return nil
}

func (r *SessionSQLite) GetByID(ctx context.Context, id string) (roastwatch.CookSession, error) {
	row := r.conn.QueryRowContext(ctx, selectSessionSQL, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roastwatch.CookSession{}, ErrNotFound
		}
		return roastwatch.CookSession{}, fmt.Errorf("select session %q: %w", id, err)
	}
	return s, nil
}

func (r *SessionSQLite) ListByUser(ctx context.Context, userID int) ([]roastwatch.CookSession, error) {
	return r.list(ctx, selectSessionsByUserSQL, userID)
}

func (r *SessionSQLite) ListActive(ctx context.Context) ([]roastwatch.CookSession, error) {
	return r.list(ctx, selectActiveSessionsSQL)
}

func (r *SessionSQLite) Update(ctx context.Context, s roastwatch.CookSession) error {
	res, err := r.conn.ExecContext(ctx, updateSessionSQL,
		s.Name, s.TargetTempF, serveAtValue(s.ServeAt), s.Active, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update session %q: %w", s.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionSQLite) list(ctx context.Context, query string, args ...any) ([]roastwatch.CookSession, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []roastwatch.CookSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (roastwatch.CookSession, error) {
	var (
		s       roastwatch.CookSession
		serveAt sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.TargetTempF, &serveAt, &s.Active, &s.CreatedAt); err != nil {
		return roastwatch.CookSession{}, err
	}
	if serveAt.Valid {
		t := serveAt.Time.UTC()
		s.ServeAt = &t
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

// serveAtValue normalizes the optional serve time to UTC for storage.
func serveAtValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
