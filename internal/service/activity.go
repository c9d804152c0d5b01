package service

import (
	"context"
	"errors"
	"time"

	"roastwatch"
	"roastwatch/internal/repository"
)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

type ActivityService struct {
	sessionRepo repository.SessionRepo
	activity    repository.ActivityRepo
}

func NewActivityService(sessionRepo repository.SessionRepo, activity repository.ActivityRepo) *ActivityService {
	return &ActivityService{sessionRepo: sessionRepo, activity: activity}
}

// List returns a session's activity entries after normalizing and validating
// the filter.
func (s *ActivityService) List(ctx context.Context, userID int, sessionID string, f ActivityFilter) ([]roastwatch.ActivityEntry, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}

	from := normalizeFilterTime(f.From)
	to := normalizeFilterTime(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.activity.List(ctx, sessionID, from, to, f.Type)
}

// normalizeFilterTime returns t in UTC, preserving zero values.
func normalizeFilterTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
