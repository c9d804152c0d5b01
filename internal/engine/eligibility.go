package engine

import "fmt"

// GateResult reports whether a recommendation may be produced, and if not,
// the single first-failing precondition.
type GateResult struct {
	CanRecommend  bool        `json:"can_recommend"`
	BlockerType   BlockerType `json:"blocker_type,omitempty"`
	BlockerReason string      `json:"blocker_reason,omitempty"`
	Progress      *Progress   `json:"progress,omitempty"`
}

// CheckEligibility runs the ordered precondition chain. Checks are evaluated
// in a fixed order and the first failure is returned alone; later failures
// are never aggregated into the result.
func CheckEligibility(snap Snapshot, conf Confidence, s Settings) GateResult {
	if n := len(snap.Readings); n < s.MinReadingsForRec {
		return blocked(BlockerInsufficientReadings,
			fmt.Sprintf("need %d readings, have %d", s.MinReadingsForRec, n),
			&Progress{Current: float64(n), Required: float64(s.MinReadingsForRec)})
	}

	span := readingSpanMinutes(snap)
	if span < s.MinTimeSpanMin {
		return blocked(BlockerInsufficientTime,
			fmt.Sprintf("need %.0f minutes of readings, have %.0f", s.MinTimeSpanMin, span),
			&Progress{Current: span, Required: s.MinTimeSpanMin})
	}

	if len(snap.OvenEvents) == 0 {
		return blocked(BlockerNoOvenData, "no oven setting recorded yet", nil)
	}

	latest := snap.OvenEvents[len(snap.OvenEvents)-1]
	age := snap.Now.Sub(latest.OccurredAt).Minutes()
	if age > s.OvenTempStaleMin {
		return blocked(BlockerStaleOvenData,
			fmt.Sprintf("last oven setting is %.0f minutes old (limit %.0f)", age, s.OvenTempStaleMin),
			&Progress{Current: age, Required: s.OvenTempStaleMin})
	}

	if conf.Level == ConfidenceInsufficient {
		return blocked(BlockerInsufficientConfidence, conf.Reason.Message(), nil)
	}

	if snap.ServeAt == nil {
		return blocked(BlockerNoServeTime, "no serve time configured", nil)
	}

	switch conf.Reason {
	case ReasonSlowOrNegative:
		return blocked(BlockerBadRate, conf.Reason.Message(), nil)
	case ReasonUnstableFit:
		return blocked(BlockerUnstableRate, conf.Reason.Message(), nil)
	}

	return GateResult{CanRecommend: true}
}

func blocked(t BlockerType, reason string, p *Progress) GateResult {
	return GateResult{BlockerType: t, BlockerReason: reason, Progress: p}
}

// readingSpanMinutes is the minutes between the first and last reading.
func readingSpanMinutes(snap Snapshot) float64 {
	if len(snap.Readings) < 2 {
		return 0
	}
	first := snap.Readings[0].TakenAt
	last := snap.Readings[len(snap.Readings)-1].TakenAt
	return last.Sub(first).Minutes()
}
