package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roastwatch"
	"roastwatch/internal/repository"

	"github.com/google/uuid"
)

// Activity entry types.
const (
	ActivitySessionCreated        = "SESSION_CREATED"
	ActivityStatusChange          = "STATUS_CHANGE"
	ActivityRecommendationApplied = "RECOMMENDATION_APPLIED"
)

var (
	errEmptyName     = errors.New("session name is required")
	errInvalidTarget = errors.New("target temperature must be positive")
)

// SessionService owns session CRUD and keeps the derived reading/oven-event
// fields consistent with the ordered sets.
type SessionService struct {
	sessionRepo repository.SessionRepo
	readingRepo repository.ReadingRepo
	ovenRepo    repository.OvenEventRepo
	activity    repository.ActivityRepo
}

func NewSessionService(
	sessionRepo repository.SessionRepo,
	readingRepo repository.ReadingRepo,
	ovenRepo repository.OvenEventRepo,
	activity repository.ActivityRepo,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		readingRepo: readingRepo,
		ovenRepo:    ovenRepo,
		activity:    activity,
	}
}

func (s *SessionService) Create(ctx context.Context, userID int, p SessionParams) (roastwatch.CookSession, error) {
	if strings.TrimSpace(p.Name) == "" {
		return roastwatch.CookSession{}, errEmptyName
	}
	if p.TargetTempF <= 0 {
		return roastwatch.CookSession{}, errInvalidTarget
	}

	session := roastwatch.CookSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(p.Name),
		TargetTempF: p.TargetTempF,
		ServeAt:     normalizeTimePtr(p.ServeAt),
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return roastwatch.CookSession{}, err
	}

	// Best-effort log line; the session itself is already persisted.
	_ = s.activity.Append(ctx, roastwatch.ActivityEntry{
		SessionID: session.ID,
		Type:      ActivitySessionCreated,
		Message:   fmt.Sprintf("session %q created, target %.0f°F", session.Name, session.TargetTempF),
	})
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, userID int, sessionID string) (roastwatch.CookSession, error) {
	return s.owned(ctx, userID, sessionID)
}

func (s *SessionService) List(ctx context.Context, userID int) ([]roastwatch.CookSession, error) {
	return s.sessionRepo.ListByUser(ctx, userID)
}

func (s *SessionService) Update(ctx context.Context, userID int, sessionID string, p SessionParams) (roastwatch.CookSession, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return roastwatch.CookSession{}, err
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		session.Name = name
	}
	if p.TargetTempF > 0 {
		session.TargetTempF = p.TargetTempF
	}
	session.ServeAt = normalizeTimePtr(p.ServeAt)
	if p.Active != nil {
		session.Active = *p.Active
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return roastwatch.CookSession{}, err
	}
	return session, nil
}

// Readings returns the ordered reading set.
func (s *SessionService) Readings(ctx context.Context, userID int, sessionID string) ([]roastwatch.Reading, error) {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.readingRepo.ListBySession(ctx, sessionID)
}

// AddReading appends a measurement and recomputes the derived deltas over the
// whole ordered set.
func (s *SessionService) AddReading(ctx context.Context, userID int, sessionID string, p ReadingParams) (roastwatch.Reading, error) {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return roastwatch.Reading{}, err
	}

	reading := roastwatch.Reading{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		TempF:     p.TempF,
		TakenAt:   normalizeTime(p.TakenAt),
	}
	if err := s.readingRepo.Append(ctx, reading); err != nil {
		return roastwatch.Reading{}, err
	}
	if err := s.recomputeReadingDeltas(ctx, sessionID); err != nil {
		return roastwatch.Reading{}, err
	}
	return reading, nil
}

// UpdateReading edits a measurement in place. Deltas are derived, so the
// whole set is recomputed afterwards; an edited timestamp can reorder it.
func (s *SessionService) UpdateReading(ctx context.Context, userID int, sessionID, readingID string, p ReadingParams) error {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return err
	}
	err := s.readingRepo.Update(ctx, roastwatch.Reading{
		ID:        readingID,
		SessionID: sessionID,
		TempF:     p.TempF,
		TakenAt:   normalizeTime(p.TakenAt),
	})
	if err != nil {
		return err
	}
	return s.recomputeReadingDeltas(ctx, sessionID)
}

func (s *SessionService) DeleteReading(ctx context.Context, userID int, sessionID, readingID string) error {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.readingRepo.Delete(ctx, sessionID, readingID); err != nil {
		return err
	}
	return s.recomputeReadingDeltas(ctx, sessionID)
}

// OvenEvents returns the ordered oven setting history.
func (s *SessionService) OvenEvents(ctx context.Context, userID int, sessionID string) ([]roastwatch.OvenEvent, error) {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.ovenRepo.ListBySession(ctx, sessionID)
}

// AddOvenEvent appends a setting change and refreshes the previous-setting
// back-references.
func (s *SessionService) AddOvenEvent(ctx context.Context, userID int, sessionID string, p OvenEventParams) (roastwatch.OvenEvent, error) {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return roastwatch.OvenEvent{}, err
	}

	event := roastwatch.OvenEvent{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		SetTempF:   p.SetTempF,
		OccurredAt: normalizeTime(p.OccurredAt),
	}
	if err := s.ovenRepo.Append(ctx, event); err != nil {
		return roastwatch.OvenEvent{}, err
	}
	if err := s.recomputePrevTemps(ctx, sessionID); err != nil {
		return roastwatch.OvenEvent{}, err
	}
	return event, nil
}

func (s *SessionService) DeleteOvenEvent(ctx context.Context, userID int, sessionID, eventID string) error {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.ovenRepo.Delete(ctx, sessionID, eventID); err != nil {
		return err
	}
	return s.recomputePrevTemps(ctx, sessionID)
}

// owned loads a session and enforces ownership.
func (s *SessionService) owned(ctx context.Context, userID int, sessionID string) (roastwatch.CookSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return roastwatch.CookSession{}, err
	}
	if session.UserID != userID {
		return roastwatch.CookSession{}, ErrForbidden
	}
	return session, nil
}

func (s *SessionService) recomputeReadingDeltas(ctx context.Context, sessionID string) error {
	readings, err := s.readingRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	RecomputeDeltas(readings)
	return s.readingRepo.SaveDeltas(ctx, readings)
}

func (s *SessionService) recomputePrevTemps(ctx context.Context, sessionID string) error {
	events, err := s.ovenRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	RecomputePrevTemps(events)
	return s.ovenRepo.SavePrevTemps(ctx, events)
}

// RecomputeDeltas rewrites the derived delta fields over an ordered reading
// set. Deltas are never authoritative; this is the only place they come from.
func RecomputeDeltas(readings []roastwatch.Reading) {
	for i := range readings {
		if i == 0 {
			readings[i].DeltaFromStartF = 0
			readings[i].DeltaFromPrevF = 0
			continue
		}
		readings[i].DeltaFromStartF = readings[i].TempF - readings[0].TempF
		readings[i].DeltaFromPrevF = readings[i].TempF - readings[i-1].TempF
	}
}

// RecomputePrevTemps rewrites the denormalized previous-setting field over an
// ordered oven event set; the first event always points at nothing.
func RecomputePrevTemps(events []roastwatch.OvenEvent) {
	for i := range events {
		if i == 0 {
			events[i].PrevTempF = nil
			continue
		}
		prev := events[i-1].SetTempF
		events[i].PrevTempF = &prev
	}
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func normalizeTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
