package engine

// Fit-quality and span thresholds for the confidence ladder.
const (
	confMinSpanMinutes   = 15.0
	confHighSpanMinutes  = 30.0
	confLowR2            = 0.7
	confHighR2           = 0.9
	confHighReadingCount = 4
)

// ConfidenceInput is everything the assessment looks at.
type ConfidenceInput struct {
	ReadingCount    int
	TimeSpanMinutes float64
	R2              float64
	RatePerHour     *float64
}

// AssessConfidence classifies how much the current prediction can be trusted.
// Branches are evaluated in order and the first match wins; each branch
// carries a distinct reason code that the eligibility gate consumes directly.
func AssessConfidence(in ConfidenceInput, s Settings) Confidence {
	switch {
	case in.ReadingCount < 2:
		return Confidence{Level: ConfidenceInsufficient, Reason: ReasonTooFewReadings}
	case in.ReadingCount < 3:
		return Confidence{Level: ConfidenceLow, Reason: ReasonOnlyTwoReadings}
	case in.RatePerHour != nil && *in.RatePerHour <= s.MinUsefulRatePerHour:
		return Confidence{Level: ConfidenceLow, Reason: ReasonSlowOrNegative}
	case in.TimeSpanMinutes < confMinSpanMinutes:
		return Confidence{Level: ConfidenceLow, Reason: ReasonShortTimeSpan}
	case in.R2 < confLowR2:
		return Confidence{Level: ConfidenceLow, Reason: ReasonUnstableFit}
	case in.R2 < confHighR2:
		return Confidence{Level: ConfidenceMedium, Reason: ReasonModerateFit}
	case in.ReadingCount >= confHighReadingCount && in.TimeSpanMinutes >= confHighSpanMinutes:
		return Confidence{Level: ConfidenceHigh, Reason: ReasonStrongFit}
	default:
		return Confidence{Level: ConfidenceMedium, Reason: ReasonLimitedData}
	}
}
