package roastwatch

import "time"

// Reading is one internal-temperature measurement taken during a cook.
// Temperatures are stored in °F; conversion belongs to presentation layers.
type Reading struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	TempF     float64   `json:"temp_f"`
	TakenAt   time.Time `json:"taken_at"`
	// Derived from the ordered set; recomputed on every insert/edit/delete.
	DeltaFromStartF float64 `json:"delta_from_start_f"`
	DeltaFromPrevF  float64 `json:"delta_from_prev_f"`
}

// OvenEvent records a change of the oven/smoker setting.
type OvenEvent struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	SetTempF   float64   `json:"set_temp_f"`
	OccurredAt time.Time `json:"occurred_at"`
	// Setting of the prior event; nil only for the first event of a session.
	// Recomputed when an earlier event is edited or removed.
	PrevTempF *float64 `json:"prev_temp_f,omitempty"`
}

// CookSession is one tracked cook: a target temperature and an optional
// serve-by time the predictions are measured against.
type CookSession struct {
	ID          string     `json:"id"`
	UserID      int        `json:"user_id"`
	Name        string     `json:"name"`
	TargetTempF float64    `json:"target_temp_f"`
	ServeAt     *time.Time `json:"serve_at,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ActivityEntry is a single append-only log line for a session: schedule
// status transitions, applied recommendations, and similar milestones.
type ActivityEntry struct {
	EntryID    string    `json:"entry_id"`
	SessionID  string    `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       string    `json:"type"` // STATUS_CHANGE | RECOMMENDATION_APPLIED | SESSION_CREATED
	Message    string    `json:"message"`
	Metadata   any       `json:"metadata,omitempty"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose the hash
}
