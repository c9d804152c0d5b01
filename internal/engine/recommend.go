package engine

import "fmt"

// Lateness tiers. A cook more than 30 minutes off schedule gets the largest
// push, 15–30 minutes a moderate one, anything inside that the base step.
// Every tier is still capped at MaxStepF before clamping to the guardrails.
const (
	tierUrgentMinutes   = 30.0
	tierModerateMinutes = 15.0
	tierUrgentFactor    = 2.5
	tierModerateFactor  = 1.5
)

// RecommendInput is the post-gate state the heuristic branches on.
type RecommendInput struct {
	Status          ScheduleStatus
	VarianceMinutes *float64
	CurrentTempF    float64
	TargetTempF     float64
	CurrentOvenF    float64
}

// Recommend computes the oven adjustment for an eligible snapshot. Callers
// must only invoke it after CheckEligibility passes; the orchestrator is the
// one place that sequences the two.
func Recommend(in RecommendInput, s Settings) Recommendation {
	// Food already at or past target: the only sensible advice is to shut
	// the oven down, regardless of schedule.
	if in.TargetTempF-in.CurrentTempF <= 0 {
		return Recommendation{
			Action:       ActionOvenOff,
			Message:      "target temperature reached; turn the oven off",
			Reasoning:    fmt.Sprintf("food is at %.0f°F, target %.0f°F", in.CurrentTempF, in.TargetTempF),
			Severity:     SeverityInfo,
			CanRecommend: true,
		}
	}

	switch in.Status {
	case StatusOnTrack:
		temp := in.CurrentOvenF
		change := 0.0
		return Recommendation{
			Action:         ActionHold,
			SuggestedTempF: &temp,
			ChangeAmountF:  &change,
			Message:        fmt.Sprintf("hold the oven at %.0f°F", temp),
			Reasoning:      "predicted finish is within the on-track window",
			Severity:       SeverityNormal,
			CanRecommend:   true,
		}
	case StatusLate:
		return adjust(in, s, +1)
	case StatusEarly:
		return adjust(in, s, -1)
	default:
		return Recommendation{
			Action:       ActionNone,
			Message:      "no schedule prediction available",
			Reasoning:    "schedule status is unknown",
			Severity:     SeverityInfo,
			CanRecommend: true,
		}
	}
}

// adjust raises (direction +1) or lowers (direction -1) the oven by the
// tiered step, clamped to the guardrails. When the guardrail is already
// exhausted it degrades to a hold instead of proposing a useless change.
func adjust(in RecommendInput, s Settings, direction float64) Recommendation {
	step, severity := tieredStep(in.VarianceMinutes, s)

	floor := s.ovenFloor()
	ceiling := s.OvenTempMaxF

	suggested := clamp(in.CurrentOvenF+direction*step, floor, ceiling)
	change := suggested - in.CurrentOvenF

	if (direction > 0 && change <= 0) || (direction < 0 && change >= 0) {
		// Already pinned at the bound; a raise/lower with non-positive
		// effect must never be emitted.
		temp := in.CurrentOvenF
		zero := 0.0
		bound := ceiling
		verb := "raised"
		if direction < 0 {
			bound = floor
			verb = "lowered"
		}
		return Recommendation{
			Action:         ActionHold,
			SuggestedTempF: &temp,
			ChangeAmountF:  &zero,
			Message:        fmt.Sprintf("oven is already at its %.0f°F limit and cannot be %s further", bound, verb),
			Reasoning:      offScheduleReason(in.VarianceMinutes, direction),
			Severity:       SeverityWarning,
			CanRecommend:   true,
		}
	}

	action := ActionRaise
	if direction < 0 {
		action = ActionLower
	}
	return Recommendation{
		Action:         action,
		SuggestedTempF: &suggested,
		ChangeAmountF:  &change,
		Message:        fmt.Sprintf("%s the oven to %.0f°F (%+.0f°F)", action, suggested, change),
		Reasoning:      offScheduleReason(in.VarianceMinutes, direction),
		Severity:       severity,
		CanRecommend:   true,
	}
}

// tieredStep picks the step magnitude and severity from how far off schedule
// the cook is. The multiplied step is capped at MaxStepF.
func tieredStep(varianceMin *float64, s Settings) (float64, Severity) {
	magnitude := 0.0
	if varianceMin != nil {
		magnitude = *varianceMin
		if magnitude < 0 {
			magnitude = -magnitude
		}
	}
	switch {
	case magnitude > tierUrgentMinutes:
		return min(s.StepF*tierUrgentFactor, s.MaxStepF), SeverityUrgent
	case magnitude >= tierModerateMinutes:
		return min(s.StepF*tierModerateFactor, s.MaxStepF), SeverityModerate
	default:
		return min(s.StepF, s.MaxStepF), SeverityNormal
	}
}

func offScheduleReason(varianceMin *float64, direction float64) string {
	word := "behind"
	if direction < 0 {
		word = "ahead of"
	}
	if varianceMin == nil {
		return fmt.Sprintf("cook is running %s schedule", word)
	}
	m := *varianceMin
	if m < 0 {
		m = -m
	}
	return fmt.Sprintf("predicted finish is %.0f minutes %s schedule", m, word)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
