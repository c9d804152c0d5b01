package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roastwatch"
	"roastwatch/internal/engine"
	"roastwatch/internal/repository"

	"github.com/google/uuid"
)

// ErrNothingToApply is returned when one-tap apply is requested but the
// engine has no actionable suggestion for the current snapshot.
var ErrNothingToApply = errors.New("no applicable recommendation for this snapshot")

// CalculationService assembles one immutable snapshot per request and runs
// the engine over it. It owns no mutable state: recomputation is cheap and
// results are regenerated from scratch each time.
type CalculationService struct {
	sessionRepo repository.SessionRepo
	readingRepo repository.ReadingRepo
	ovenRepo    repository.OvenEventRepo
	activity    repository.ActivityRepo
	settings    engine.Settings
}

func NewCalculationService(
	sessionRepo repository.SessionRepo,
	readingRepo repository.ReadingRepo,
	ovenRepo repository.OvenEventRepo,
	activity repository.ActivityRepo,
	settings engine.Settings,
) *CalculationService {
	return &CalculationService{
		sessionRepo: sessionRepo,
		readingRepo: readingRepo,
		ovenRepo:    ovenRepo,
		activity:    activity,
		settings:    settings,
	}
}

// ForSession computes the full calculation result and recommendation for one
// session at the injected "now".
func (s *CalculationService) ForSession(ctx context.Context, userID int, sessionID string, now time.Time) (engine.Result, error) {
	snap, err := s.snapshot(ctx, userID, sessionID, now)
	if err != nil {
		return engine.Result{}, err
	}
	return engine.Compute(snap, s.settings), nil
}

// Responsiveness runs the advisory oven-responsiveness analysis. A nil
// analysis with a nil error means the session has too little segment data.
func (s *CalculationService) Responsiveness(ctx context.Context, userID int, sessionID string, now time.Time) (*engine.ResponsivenessAnalysis, error) {
	snap, err := s.snapshot(ctx, userID, sessionID, now)
	if err != nil {
		return nil, err
	}
	return engine.AnalyzeResponsiveness(snap, s.settings), nil
}

// ApplyRecommendation performs the one-tap apply: it recomputes the current
// recommendation and, when it carries a new setting, appends the matching
// oven event and logs the application.
func (s *CalculationService) ApplyRecommendation(ctx context.Context, userID int, sessionID string, now time.Time) (roastwatch.OvenEvent, error) {
	snap, err := s.snapshot(ctx, userID, sessionID, now)
	if err != nil {
		return roastwatch.OvenEvent{}, err
	}

	result := engine.Compute(snap, s.settings)
	rec := result.Recommendation
	if !rec.CanRecommend || rec.SuggestedTempF == nil {
		return roastwatch.OvenEvent{}, ErrNothingToApply
	}
	if rec.Action != engine.ActionRaise && rec.Action != engine.ActionLower {
		return roastwatch.OvenEvent{}, ErrNothingToApply
	}

	event := roastwatch.OvenEvent{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		SetTempF:   *rec.SuggestedTempF,
		OccurredAt: now.UTC(),
	}
	if err := s.ovenRepo.Append(ctx, event); err != nil {
		return roastwatch.OvenEvent{}, err
	}

	events, err := s.ovenRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return roastwatch.OvenEvent{}, err
	}
	RecomputePrevTemps(events)
	if err := s.ovenRepo.SavePrevTemps(ctx, events); err != nil {
		return roastwatch.OvenEvent{}, err
	}

	_ = s.activity.Append(ctx, roastwatch.ActivityEntry{
		SessionID:  sessionID,
		OccurredAt: now.UTC(),
		Type:       ActivityRecommendationApplied,
		Message:    fmt.Sprintf("applied recommendation: %s to %.0f°F", rec.Action, *rec.SuggestedTempF),
		Metadata: map[string]any{
			"action":     string(rec.Action),
			"set_temp_f": *rec.SuggestedTempF,
			"change_f":   rec.ChangeAmountF,
			"severity":   string(rec.Severity),
			"schedule":   string(result.Calculation.ScheduleStatus),
		},
	})
	return event, nil
}

// snapshot loads one immutable view of a session. The engine never sees the
// repositories; it only gets this value.
func (s *CalculationService) snapshot(ctx context.Context, userID int, sessionID string, now time.Time) (engine.Snapshot, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	if session.UserID != userID {
		return engine.Snapshot{}, ErrForbidden
	}

	readings, err := s.readingRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	events, err := s.ovenRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return engine.Snapshot{}, err
	}

	return engine.Snapshot{
		Readings:    readings,
		OvenEvents:  events,
		TargetTempF: session.TargetTempF,
		ServeAt:     session.ServeAt,
		Now:         now.UTC(),
	}, nil
}
