package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"roastwatch"
	"roastwatch/internal/engine"
	"roastwatch/internal/service"
)

func TestCalculationsHandler_ForSession(t *testing.T) {
	auth := &mockAuth{parseID: 9}
	rate := 5.2
	mins := 86
	calc := &mockCalculations{result: engine.Result{
		Calculation: engine.CalculationResult{
			CurrentRate:              &rate,
			FitR2:                    0.981,
			SampleCount:              3,
			PredictedMinutesToTarget: &mins,
			ScheduleStatus:           engine.StatusOnTrack,
			Confidence: engine.Confidence{
				Level:  engine.ConfidenceMedium,
				Reason: engine.ReasonLimitedData,
			},
		},
		Recommendation: engine.Recommendation{
			Action:       engine.ActionHold,
			Severity:     engine.SeverityInfo,
			CanRecommend: true,
		},
	}}
	s := &service.Service{Authorization: auth, Calculations: calc}
	r := newTestRouter(s)

	w := doAuthed(t, r, http.MethodGet, "/api/v1/sessions/s1/calculations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if calc.lastUser != 9 || calc.lastSessn != "s1" {
		t.Fatalf("wrong call: user=%d session=%q", calc.lastUser, calc.lastSessn)
	}
	if calc.lastNow.IsZero() {
		t.Fatal("handler must pass a concrete now")
	}

	var got engine.Result
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if got.Calculation.CurrentRate == nil || *got.Calculation.CurrentRate != 5.2 {
		t.Fatalf("unexpected rate: %+v", got.Calculation)
	}
	if got.Recommendation.Action != engine.ActionHold {
		t.Fatalf("unexpected action: %+v", got.Recommendation)
	}
}

func TestCalculationsHandler_NotFound(t *testing.T) {
	auth := &mockAuth{parseID: 9}
	calc := &mockCalculations{err: service.ErrNotFound}
	s := &service.Service{Authorization: auth, Calculations: calc}
	r := newTestRouter(s)

	w := doAuthed(t, r, http.MethodGet, "/api/v1/sessions/nope/calculations", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestResponsivenessHandler_NullAnalysis(t *testing.T) {
	auth := &mockAuth{parseID: 9}
	calc := &mockCalculations{analysis: nil}
	s := &service.Service{Authorization: auth, Calculations: calc}
	r := newTestRouter(s)

	w := doAuthed(t, r, http.MethodGet, "/api/v1/sessions/s1/responsiveness", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Analysis *engine.ResponsivenessAnalysis `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Analysis != nil {
		t.Fatalf("expected null analysis, got %+v", out.Analysis)
	}
}

func TestApplyRecommendationHandler(t *testing.T) {
	auth := &mockAuth{parseID: 9}
	prev := 225.0
	calc := &mockCalculations{event: roastwatch.OvenEvent{
		ID:        "e9",
		SetTempF:  250,
		PrevTempF: &prev,
	}}
	s := &service.Service{Authorization: auth, Calculations: calc}
	r := newTestRouter(s)

	w := doAuthed(t, r, http.MethodPost, "/api/v1/sessions/s1/recommendations/apply", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Status string               `json:"status"`
		Event  roastwatch.OvenEvent `json:"event"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Status != "applied" || out.Event.ID != "e9" || out.Event.SetTempF != 250 {
		t.Fatalf("unexpected response: %+v", out)
	}

	// Nothing applicable → 409
	calc.applyErr = service.ErrNothingToApply
	w = doAuthed(t, r, http.MethodPost, "/api/v1/sessions/s1/recommendations/apply", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestActivityHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 9}
	now := time.Now().UTC().Truncate(time.Second)
	entries := []roastwatch.ActivityEntry{
		{EntryID: "a1", OccurredAt: now, Type: "SESSION_CREATED", Message: "created"},
		{EntryID: "a2", OccurredAt: now.Add(time.Minute), Type: "STATUS_CHANGE", Message: "on-track -> late"},
	}
	act := &mockActivity{resp: entries}
	s := &service.Service{Authorization: auth, Activity: act}
	r := newTestRouter(s)

	// Invalid 'from' → 400
	w := doAuthed(t, r, http.MethodGet, "/api/v1/sessions/s1/activity?from=notatime", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Valid range and type (lowercase type should be normalized to upper)
	q := "/api/v1/sessions/s1/activity?from=" + now.Format(time.RFC3339) +
		"&to=" + now.Add(2*time.Minute).Format(time.RFC3339) + "&type=status_change"
	w = doAuthed(t, r, http.MethodGet, q, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("activity status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count   int                        `json:"count"`
		Entries []roastwatch.ActivityEntry `json:"entries"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Entries) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if act.lastFilter.Type != "STATUS_CHANGE" {
		t.Fatalf("expected type STATUS_CHANGE, got %q", act.lastFilter.Type)
	}
	if act.lastSessn != "s1" {
		t.Fatalf("expected session s1, got %q", act.lastSessn)
	}

	// Date-only 'to' is widened to end of day
	w = doAuthed(t, r, http.MethodGet, "/api/v1/sessions/s1/activity?to=2025-11-27", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("activity status=%d, body=%s", w.Code, w.Body.String())
	}
	endOfDay := time.Date(2025, 11, 27, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !act.lastFilter.To.Equal(endOfDay) {
		t.Fatalf("expected end-of-day %v, got %v", endOfDay, act.lastFilter.To)
	}
}
