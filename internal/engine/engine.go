package engine

// Compute is the single supported entry point of the engine: it sequences
// rate estimation, confidence assessment, prediction, eligibility gating and
// the recommendation heuristic over one immutable snapshot and returns a
// structurally complete result. Sub-components are not meant to be called
// out of this order, since confidence output feeds the gate.
func Compute(snap Snapshot, s Settings) Result {
	// Zero readings short-circuits the predictive pipeline entirely.
	if len(snap.Readings) == 0 {
		calc := CalculationResult{
			ScheduleStatus: StatusUnknown,
			Confidence:     Confidence{Level: ConfidenceInsufficient, Reason: ReasonTooFewReadings},
		}
		return Result{
			Calculation:    calc,
			Recommendation: blockedRecommendation(CheckEligibility(snap, calc.Confidence, s)),
		}
	}

	estimate := EstimateRate(snap.Readings, s.SmoothingWindow)
	average := AverageRate(snap.Readings)

	conf := AssessConfidence(ConfidenceInput{
		ReadingCount:    len(snap.Readings),
		TimeSpanMinutes: readingSpanMinutes(snap),
		R2:              estimate.R2,
		RatePerHour:     estimate.RatePerHour,
	}, s)

	current := snap.Readings[len(snap.Readings)-1]
	ttt := PredictTimeToTarget(current.TempF, snap.TargetTempF, estimate.RatePerHour, snap.Now, s)
	schedule := AssessSchedule(ttt.TargetTime, snap.ServeAt, s.OnTrackThresholdMin)

	calc := CalculationResult{
		CurrentRate:              estimate.RatePerHour,
		FitR2:                    estimate.R2,
		SampleCount:              estimate.SampleCount,
		AverageRate:              average,
		PredictedMinutesToTarget: ttt.Minutes,
		PredictedTargetTime:      ttt.TargetTime,
		ScheduleVarianceMinutes:  schedule.VarianceMinutes,
		ScheduleStatus:           schedule.Status,
		Confidence:               conf,
	}

	gate := CheckEligibility(snap, conf, s)
	if !gate.CanRecommend {
		return Result{Calculation: calc, Recommendation: blockedRecommendation(gate)}
	}

	rec := Recommend(RecommendInput{
		Status:          schedule.Status,
		VarianceMinutes: schedule.VarianceMinutes,
		CurrentTempF:    current.TempF,
		TargetTempF:     snap.TargetTempF,
		CurrentOvenF:    snap.OvenEvents[len(snap.OvenEvents)-1].SetTempF,
	}, s)
	return Result{Calculation: calc, Recommendation: rec}
}

// blockedRecommendation wraps a failed gate check into the uniform
// recommendation shape, so callers always get a complete object.
func blockedRecommendation(gate GateResult) Recommendation {
	return Recommendation{
		Action:        ActionNone,
		Message:       "no recommendation yet",
		Reasoning:     gate.BlockerReason,
		Severity:      SeverityInfo,
		CanRecommend:  false,
		BlockerType:   gate.BlockerType,
		BlockerReason: gate.BlockerReason,
		Progress:      gate.Progress,
	}
}
