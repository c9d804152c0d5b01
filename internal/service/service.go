package service

import (
	"context"
	"errors"
	"time"

	"roastwatch"
	"roastwatch/internal/engine"
	"roastwatch/internal/repository"
)

// Domain errors shared across services; handlers map these to status codes.
var (
	ErrForbidden = errors.New("session belongs to another user")
	ErrNotFound  = repository.ErrNotFound
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Sessions owns cook sessions and their event streams, including the derived
// fields that must be recomputed whenever the ordered sets change.
type Sessions interface {
	Create(ctx context.Context, userID int, p SessionParams) (roastwatch.CookSession, error)
	Get(ctx context.Context, userID int, sessionID string) (roastwatch.CookSession, error)
	List(ctx context.Context, userID int) ([]roastwatch.CookSession, error)
	Update(ctx context.Context, userID int, sessionID string, p SessionParams) (roastwatch.CookSession, error)

	Readings(ctx context.Context, userID int, sessionID string) ([]roastwatch.Reading, error)
	AddReading(ctx context.Context, userID int, sessionID string, p ReadingParams) (roastwatch.Reading, error)
	UpdateReading(ctx context.Context, userID int, sessionID, readingID string, p ReadingParams) error
	DeleteReading(ctx context.Context, userID int, sessionID, readingID string) error

	OvenEvents(ctx context.Context, userID int, sessionID string) ([]roastwatch.OvenEvent, error)
	AddOvenEvent(ctx context.Context, userID int, sessionID string, p OvenEventParams) (roastwatch.OvenEvent, error)
	DeleteOvenEvent(ctx context.Context, userID int, sessionID, eventID string) error
}

// Calculations runs the prediction engine over one snapshot of a session.
type Calculations interface {
	ForSession(ctx context.Context, userID int, sessionID string, now time.Time) (engine.Result, error)
	Responsiveness(ctx context.Context, userID int, sessionID string, now time.Time) (*engine.ResponsivenessAnalysis, error)
	ApplyRecommendation(ctx context.Context, userID int, sessionID string, now time.Time) (roastwatch.OvenEvent, error)
}

// Activity exposes the append-only per-session log with filtering.
type Activity interface {
	List(ctx context.Context, userID int, sessionID string, f ActivityFilter) ([]roastwatch.ActivityEntry, error)
}

// Monitor runs the background loop that recomputes active sessions and logs
// schedule-status transitions. Stop via context cancellation in main().
type Monitor interface {
	Run(ctx context.Context, tick time.Duration)
}

// SessionParams carries create/update input for a session.
type SessionParams struct {
	Name        string
	TargetTempF float64
	ServeAt     *time.Time
	Active      *bool // nil leaves the flag unchanged on update
}

// ReadingParams carries a single measurement.
type ReadingParams struct {
	TempF   float64
	TakenAt time.Time // zero means "now"
}

// OvenEventParams carries one oven setting change.
type OvenEventParams struct {
	SetTempF   float64
	OccurredAt time.Time // zero means "now"
}

// ActivityFilter narrows activity listing by time range and type.
type ActivityFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "STATUS_CHANGE", "RECOMMENDATION_APPLIED", "SESSION_CREATED"
}

// Service aggregates all sub-services behind one wiring point.
type Service struct {
	Sessions
	Calculations
	Activity
	Monitor
	Authorization
}

// NewService wires the repository layer into concrete services. The engine
// settings are fixed at construction and shared read-only.
func NewService(repos *repository.Repository, settings engine.Settings, signingKey string) *Service {
	sessions := NewSessionService(repos.Sessions, repos.Readings, repos.OvenEvents, repos.Activity)
	calcs := NewCalculationService(repos.Sessions, repos.Readings, repos.OvenEvents, repos.Activity, settings)
	return &Service{
		Sessions:      sessions,
		Calculations:  calcs,
		Activity:      NewActivityService(repos.Sessions, repos.Activity),
		Monitor:       NewMonitorService(repos.Sessions, repos.Readings, repos.OvenEvents, repos.Activity, settings),
		Authorization: NewAuthService(repos.Auth, signingKey),
	}
}
