package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roastwatch"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*roastwatch.User, error)
}

// SessionRepo persists cook sessions.
type SessionRepo interface {
	Create(ctx context.Context, s roastwatch.CookSession) error
	GetByID(ctx context.Context, id string) (roastwatch.CookSession, error)
	ListByUser(ctx context.Context, userID int) ([]roastwatch.CookSession, error)
	Update(ctx context.Context, s roastwatch.CookSession) error
	ListActive(ctx context.Context) ([]roastwatch.CookSession, error)
}

// ReadingRepo persists internal-temperature readings, ordered by taken_at.
type ReadingRepo interface {
	Append(ctx context.Context, r roastwatch.Reading) error
	ListBySession(ctx context.Context, sessionID string) ([]roastwatch.Reading, error)
	Update(ctx context.Context, r roastwatch.Reading) error
	Delete(ctx context.Context, sessionID, id string) error
	// SaveDeltas rewrites the derived delta columns for the given readings in
	// one transaction.
	SaveDeltas(ctx context.Context, readings []roastwatch.Reading) error
}

// OvenEventRepo persists oven setting changes, ordered by occurred_at.
type OvenEventRepo interface {
	Append(ctx context.Context, e roastwatch.OvenEvent) error
	ListBySession(ctx context.Context, sessionID string) ([]roastwatch.OvenEvent, error)
	Delete(ctx context.Context, sessionID, id string) error
	// SavePrevTemps rewrites the denormalized previous-setting column for the
	// given events in one transaction.
	SavePrevTemps(ctx context.Context, events []roastwatch.OvenEvent) error
}

// ActivityRepo is the append-only per-session activity log.
type ActivityRepo interface {
	Append(ctx context.Context, e roastwatch.ActivityEntry) error
	List(ctx context.Context, sessionID string, from, to time.Time, typ string) ([]roastwatch.ActivityEntry, error)
}

type Repository struct {
	Sessions   SessionRepo
	Readings   ReadingRepo
	OvenEvents OvenEventRepo
	Activity   ActivityRepo
	Auth       Authorization
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Sessions:   NewSessionSQLite(conn),
		Readings:   NewReadingSQLite(conn),
		OvenEvents: NewOvenEventSQLite(conn),
		Activity:   NewActivitySQLite(conn),
		Auth:       NewUserRepository(conn),
	}
}
