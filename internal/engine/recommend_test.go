package engine

import (
	"testing"
)

func baseRecommendInput() RecommendInput {
	return RecommendInput{
		Status:       StatusOnTrack,
		CurrentTempF: 120,
		TargetTempF:  160,
		CurrentOvenF: 225,
	}
}

func TestRecommend_OnTrackHolds(t *testing.T) {
	t.Parallel()

	got := Recommend(baseRecommendInput(), DefaultSettings())
	if got.Action != ActionHold {
		t.Fatalf("action: want hold, got %q", got.Action)
	}
	if got.SuggestedTempF == nil || *got.SuggestedTempF != 225 {
		t.Errorf("suggested: want 225, got %v", got.SuggestedTempF)
	}
	if got.ChangeAmountF == nil || *got.ChangeAmountF != 0 {
		t.Errorf("change: want 0, got %v", got.ChangeAmountF)
	}
	if got.Severity != SeverityNormal {
		t.Errorf("severity: want normal, got %q", got.Severity)
	}
}

func TestRecommend_LatenessTiers(t *testing.T) {
	t.Parallel()

	s := DefaultSettings() // step 10, max 25

	cases := []struct {
		name         string
		varianceMin  float64
		wantChange   float64
		wantSeverity Severity
	}{
		{name: "slightly late uses base step", varianceMin: 10, wantChange: 10, wantSeverity: SeverityNormal},
		{name: "moderately late multiplies by 1.5", varianceMin: 20, wantChange: 15, wantSeverity: SeverityModerate},
		{name: "very late multiplies by 2.5 then caps", varianceMin: 45, wantChange: 25, wantSeverity: SeverityUrgent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseRecommendInput()
			in.Status = StatusLate
			in.VarianceMinutes = float(tc.varianceMin)

			got := Recommend(in, s)
			if got.Action != ActionRaise {
				t.Fatalf("action: want raise, got %q", got.Action)
			}
			if got.ChangeAmountF == nil || *got.ChangeAmountF != tc.wantChange {
				t.Errorf("change: want %v, got %v", tc.wantChange, got.ChangeAmountF)
			}
			if got.SuggestedTempF == nil || *got.SuggestedTempF != in.CurrentOvenF+tc.wantChange {
				t.Errorf("suggested: want %v, got %v", in.CurrentOvenF+tc.wantChange, got.SuggestedTempF)
			}
			if got.Severity != tc.wantSeverity {
				t.Errorf("severity: want %q, got %q", tc.wantSeverity, got.Severity)
			}
		})
	}
}

func TestRecommend_EarlyLowersSymmetrically(t *testing.T) {
	t.Parallel()

	in := baseRecommendInput()
	in.Status = StatusEarly
	in.VarianceMinutes = float(-20)

	got := Recommend(in, DefaultSettings())
	if got.Action != ActionLower {
		t.Fatalf("action: want lower, got %q", got.Action)
	}
	if got.ChangeAmountF == nil || *got.ChangeAmountF != -15 {
		t.Errorf("change: want -15, got %v", got.ChangeAmountF)
	}
	if got.SuggestedTempF == nil || *got.SuggestedTempF != 210 {
		t.Errorf("suggested: want 210, got %v", got.SuggestedTempF)
	}
}

func TestRecommend_ClampReportsPostClampChange(t *testing.T) {
	t.Parallel()

	// 285 + 25 would overshoot the 300 ceiling; report the 15 actually applied.
	in := baseRecommendInput()
	in.Status = StatusLate
	in.VarianceMinutes = float(45)
	in.CurrentOvenF = 285

	got := Recommend(in, DefaultSettings())
	if got.Action != ActionRaise {
		t.Fatalf("action: want raise, got %q", got.Action)
	}
	if got.SuggestedTempF == nil || *got.SuggestedTempF != 300 {
		t.Errorf("suggested: want 300, got %v", got.SuggestedTempF)
	}
	if got.ChangeAmountF == nil || *got.ChangeAmountF != 15 {
		t.Errorf("change: want 15, got %v", got.ChangeAmountF)
	}
}

func TestRecommend_GuardrailExhaustedDegradesToHold(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()

	t.Run("at ceiling", func(t *testing.T) {
		in := baseRecommendInput()
		in.Status = StatusLate
		in.VarianceMinutes = float(45)
		in.CurrentOvenF = s.OvenTempMaxF

		got := Recommend(in, s)
		if got.Action != ActionHold {
			t.Fatalf("action: want hold, got %q", got.Action)
		}
		if got.Severity != SeverityWarning {
			t.Errorf("severity: want warning, got %q", got.Severity)
		}
		if got.ChangeAmountF == nil || *got.ChangeAmountF != 0 {
			t.Errorf("change: want 0, got %v", got.ChangeAmountF)
		}
	})

	t.Run("at practical floor", func(t *testing.T) {
		in := baseRecommendInput()
		in.Status = StatusEarly
		in.VarianceMinutes = float(-45)
		in.CurrentOvenF = s.PracticalMinF // low-temp recommendations disabled

		got := Recommend(in, s)
		if got.Action != ActionHold {
			t.Fatalf("action: want hold, got %q", got.Action)
		}
		if got.Severity != SeverityWarning {
			t.Errorf("severity: want warning, got %q", got.Severity)
		}
	})

	t.Run("low-temp flag lowers the floor", func(t *testing.T) {
		allowLow := s
		allowLow.AllowLowTemp = true

		in := baseRecommendInput()
		in.Status = StatusEarly
		in.VarianceMinutes = float(-45)
		in.CurrentOvenF = s.PracticalMinF

		got := Recommend(in, allowLow)
		if got.Action != ActionLower {
			t.Fatalf("action: want lower with low-temp enabled, got %q", got.Action)
		}
		if got.SuggestedTempF == nil || *got.SuggestedTempF != s.PracticalMinF-25 {
			t.Errorf("suggested: want %v, got %v", s.PracticalMinF-25, got.SuggestedTempF)
		}
	})
}

// Guardrail property: the suggestion never leaves the configured bounds, and
// a clamp that would null the change always degrades to hold.
func TestRecommend_GuardrailProperty(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	statuses := []ScheduleStatus{StatusLate, StatusEarly, StatusOnTrack}
	variances := []float64{-90, -45, -20, -10, 0, 10, 20, 45, 90}
	ovens := []float64{150, 175, 200, 225, 250, 275, 300}

	for _, status := range statuses {
		for _, v := range variances {
			for _, oven := range ovens {
				in := baseRecommendInput()
				in.Status = status
				in.VarianceMinutes = float(v)
				in.CurrentOvenF = oven

				got := Recommend(in, s)
				if got.SuggestedTempF != nil {
					if *got.SuggestedTempF < s.OvenTempMinF || *got.SuggestedTempF > s.OvenTempMaxF {
						t.Fatalf("status=%v v=%v oven=%v: suggestion %v outside [%v, %v]",
							status, v, oven, *got.SuggestedTempF, s.OvenTempMinF, s.OvenTempMaxF)
					}
				}
				if got.Action == ActionRaise && (got.ChangeAmountF == nil || *got.ChangeAmountF <= 0) {
					t.Fatalf("raise with non-positive change: %+v", got)
				}
				if got.Action == ActionLower && (got.ChangeAmountF == nil || *got.ChangeAmountF >= 0) {
					t.Fatalf("lower with non-negative change: %+v", got)
				}
			}
		}
	}
}

func TestRecommend_TargetReachedTurnsOvenOff(t *testing.T) {
	t.Parallel()

	in := baseRecommendInput()
	in.CurrentTempF = 165
	in.TargetTempF = 160
	in.Status = StatusLate

	got := Recommend(in, DefaultSettings())
	if got.Action != ActionOvenOff {
		t.Fatalf("action: want oven-off, got %q", got.Action)
	}
}

func TestRecommend_UnknownStatusDoesNothing(t *testing.T) {
	t.Parallel()

	in := baseRecommendInput()
	in.Status = StatusUnknown

	got := Recommend(in, DefaultSettings())
	if got.Action != ActionNone {
		t.Fatalf("action: want none, got %q", got.Action)
	}
	if got.SuggestedTempF != nil || got.ChangeAmountF != nil {
		t.Errorf("unknown status must not suggest a temperature")
	}
}
