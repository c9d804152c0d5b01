package service

import (
	"context"
	"fmt"
	"time"

	"roastwatch"
	"roastwatch/internal/engine"
	"roastwatch/internal/repository"
)

// MonitorService periodically recomputes every active session and appends an
// activity entry when the schedule status transitions. It keeps only a small
// in-memory map of last-seen statuses; a restart simply re-detects the
// current status on the next tick.
type MonitorService struct {
	sessionRepo repository.SessionRepo
	readingRepo repository.ReadingRepo
	ovenRepo    repository.OvenEventRepo
	activity    repository.ActivityRepo
	settings    engine.Settings

	lastStatus map[string]engine.ScheduleStatus
}

func NewMonitorService(
	sessionRepo repository.SessionRepo,
	readingRepo repository.ReadingRepo,
	ovenRepo repository.OvenEventRepo,
	activity repository.ActivityRepo,
	settings engine.Settings,
) *MonitorService {
	return &MonitorService{
		sessionRepo: sessionRepo,
		readingRepo: readingRepo,
		ovenRepo:    ovenRepo,
		activity:    activity,
		settings:    settings,
		lastStatus:  make(map[string]engine.ScheduleStatus),
	}
}

// Run ticks at the given interval until ctx is canceled. Each tick is
// best-effort: a failing session is skipped, not retried.
func (s *MonitorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now.UTC())
		}
	}
}

// sweep recomputes every active session once.
func (s *MonitorService) sweep(ctx context.Context, now time.Time) {
	sessions, err := s.sessionRepo.ListActive(ctx)
	if err != nil {
		return
	}
	for _, session := range sessions {
		s.checkSession(ctx, session, now)
	}
}

func (s *MonitorService) checkSession(ctx context.Context, session roastwatch.CookSession, now time.Time) {
	readings, err := s.readingRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return
	}
	events, err := s.ovenRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return
	}

	result := engine.Compute(engine.Snapshot{
		Readings:    readings,
		OvenEvents:  events,
		TargetTempF: session.TargetTempF,
		ServeAt:     session.ServeAt,
		Now:         now,
	}, s.settings)

	status := result.Calculation.ScheduleStatus
	prev, seen := s.lastStatus[session.ID]
	s.lastStatus[session.ID] = status

	// Only transitions between known statuses are worth a log line; the
	// first observation and anything involving "unknown" stay quiet.
	if !seen || prev == status || prev == engine.StatusUnknown || status == engine.StatusUnknown {
		return
	}

	entry := roastwatch.ActivityEntry{
		SessionID:  session.ID,
		OccurredAt: now,
		Type:       ActivityStatusChange,
		Message:    fmt.Sprintf("schedule status changed from %s to %s", prev, status),
		Metadata: map[string]any{
			"from": string(prev),
			"to":   string(status),
		},
	}
	if v := result.Calculation.ScheduleVarianceMinutes; v != nil {
		entry.Metadata.(map[string]any)["variance_minutes"] = *v
	}
	_ = s.activity.Append(ctx, entry)
}
