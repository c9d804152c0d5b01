package engine

import (
	"math"
	"testing"
	"time"

	"roastwatch"
)

// twoSegmentSnapshot: oven at 225 for two hours, then 275 until "now", with
// readings well past the thermal lag in both segments. The second segment
// heats twice as fast.
func twoSegmentSnapshot() Snapshot {
	return Snapshot{
		Readings: readingsAt(
			// Segment 1 (after 15 min lag): 5°F/hour.
			[2]float64{30, 100}, [2]float64{60, 102.5}, [2]float64{90, 105},
			// Segment 2: 10°F/hour.
			[2]float64{150, 110}, [2]float64{180, 115}, [2]float64{210, 120},
		),
		OvenEvents: []roastwatch.OvenEvent{
			{ID: "e1", SetTempF: 225, OccurredAt: testBase},
			{ID: "e2", SetTempF: 275, OccurredAt: testBase.Add(2 * time.Hour), PrevTempF: float(225)},
		},
		TargetTempF: 160,
		Now:         testBase.Add(4 * time.Hour),
	}
}

func TestAnalyzeResponsiveness(t *testing.T) {
	t.Parallel()

	got := AnalyzeResponsiveness(twoSegmentSnapshot(), DefaultSettings())
	if got == nil {
		t.Fatalf("expected an analysis, got nil")
	}
	if len(got.Segments) != 2 {
		t.Fatalf("segments: want 2, got %d", len(got.Segments))
	}
	if got.Segments[0].RatePerHour != 5 {
		t.Errorf("segment 1 rate: want 5, got %v", got.Segments[0].RatePerHour)
	}
	if got.Segments[1].RatePerHour != 10 {
		t.Errorf("segment 2 rate: want 10, got %v", got.Segments[1].RatePerHour)
	}
	// Two points always correlate perfectly.
	if got.Correlation != 1 {
		t.Errorf("correlation: want 1, got %v", got.Correlation)
	}
	// Δrate/Δsetting = (10-5)/(275-225) = 0.1 °F/h per oven °F.
	if math.Abs(got.DegreesPerOvenDegree-0.1) > 1e-9 {
		t.Errorf("coefficient: want 0.1, got %v", got.DegreesPerOvenDegree)
	}
}

func TestAnalyzeResponsiveness_ThermalLagExcludesReadings(t *testing.T) {
	t.Parallel()

	snap := twoSegmentSnapshot()
	// A wild reading right after the second setting change must be ignored:
	// it falls inside the 15-minute lag window.
	spike := roastwatch.Reading{TempF: 500, TakenAt: testBase.Add(125 * time.Minute)}
	readings := append([]roastwatch.Reading{}, snap.Readings[:3]...)
	readings = append(readings, spike)
	readings = append(readings, snap.Readings[3:]...)
	snap.Readings = readings

	got := AnalyzeResponsiveness(snap, DefaultSettings())
	if got == nil {
		t.Fatalf("expected an analysis, got nil")
	}
	if got.Segments[1].ReadingCount != 3 {
		t.Errorf("lagged reading leaked into segment: count %d", got.Segments[1].ReadingCount)
	}
	if got.Segments[1].RatePerHour != 10 {
		t.Errorf("segment 2 rate: want 10, got %v", got.Segments[1].RatePerHour)
	}
}

func TestAnalyzeResponsiveness_Preconditions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{name: "no oven events", mutate: func(s *Snapshot) { s.OvenEvents = nil }},
		{name: "too few readings", mutate: func(s *Snapshot) { s.Readings = s.Readings[:1] }},
		{
			name: "single valid segment",
			mutate: func(s *Snapshot) {
				// Drop the second segment's readings.
				s.Readings = s.Readings[:3]
			},
		},
		{
			name: "identical settings have no spread",
			mutate: func(s *Snapshot) {
				for i := range s.OvenEvents {
					s.OvenEvents[i].SetTempF = 225
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := twoSegmentSnapshot()
			tc.mutate(&snap)
			if got := AnalyzeResponsiveness(snap, DefaultSettings()); got != nil {
				t.Errorf("expected nil analysis, got %+v", got)
			}
		})
	}
}
