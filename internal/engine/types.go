// Package engine is the predictive core of roastwatch: rate estimation over a
// smoothing window, confidence scoring, time-to-target and schedule-variance
// prediction, and the guarded oven-adjustment heuristic.
//
// Everything in this package is a pure function over an immutable Snapshot.
// The engine never reads a clock, never touches storage, never logs, and
// never returns an error: malformed-but-well-typed input degrades to nil
// fields and blocked recommendations instead.
package engine

import (
	"time"

	"roastwatch"
)

// Snapshot is one immutable view of a cook session. Readings and OvenEvents
// must be ordered by timestamp ascending; Now is the injected "current time"
// used for ETAs and staleness so that identical snapshots always produce
// identical results.
type Snapshot struct {
	Readings    []roastwatch.Reading
	OvenEvents  []roastwatch.OvenEvent
	TargetTempF float64
	ServeAt     *time.Time
	Now         time.Time
}

// ConfidenceLevel classifies how trustworthy the current prediction is.
type ConfidenceLevel string

const (
	ConfidenceHigh         ConfidenceLevel = "high"
	ConfidenceMedium       ConfidenceLevel = "medium"
	ConfidenceLow          ConfidenceLevel = "low"
	ConfidenceInsufficient ConfidenceLevel = "insufficient"
)

// ConfidenceReason is the machine-checkable cause behind a confidence level.
// The eligibility gate branches on these codes, so they are the single source
// of truth shared by assessment and gating.
type ConfidenceReason string

const (
	ReasonTooFewReadings  ConfidenceReason = "too_few_readings"
	ReasonOnlyTwoReadings ConfidenceReason = "only_two_readings"
	ReasonSlowOrNegative  ConfidenceReason = "slow_or_negative_rate"
	ReasonShortTimeSpan   ConfidenceReason = "short_time_span"
	ReasonUnstableFit     ConfidenceReason = "unstable_fit"
	ReasonModerateFit     ConfidenceReason = "moderate_fit"
	ReasonStrongFit       ConfidenceReason = "strong_fit"
	ReasonLimitedData     ConfidenceReason = "limited_data"
)

// Message returns the human-readable explanation for a reason code.
func (r ConfidenceReason) Message() string {
	switch r {
	case ReasonTooFewReadings:
		return "need at least 2 readings to estimate a rate"
	case ReasonOnlyTwoReadings:
		return "only 2 readings; trend may not hold"
	case ReasonSlowOrNegative:
		return "temperature is rising too slowly or falling"
	case ReasonShortTimeSpan:
		return "readings cover too short a time span"
	case ReasonUnstableFit:
		return "readings are fluctuating; trend is unstable"
	case ReasonModerateFit:
		return "trend is reasonably steady"
	case ReasonStrongFit:
		return "steady trend over a long span"
	case ReasonLimitedData:
		return "trend looks good but data is still limited"
	}
	return string(r)
}

// Confidence pairs a level with the reason code that produced it.
type Confidence struct {
	Level  ConfidenceLevel  `json:"level"`
	Reason ConfidenceReason `json:"reason"`
}

// ScheduleStatus is the three-way verdict against the serve time.
type ScheduleStatus string

const (
	StatusEarly   ScheduleStatus = "early"
	StatusLate    ScheduleStatus = "late"
	StatusOnTrack ScheduleStatus = "on-track"
	StatusUnknown ScheduleStatus = "unknown"
)

// CalculationResult is the full predictive output for one snapshot. It is
// rebuilt from scratch on every invocation and never mutated afterwards.
type CalculationResult struct {
	CurrentRate *float64 `json:"current_rate,omitempty"` // °F/hour over the smoothing window
	FitR2       float64  `json:"fit_r2"`
	SampleCount int      `json:"sample_count"`
	AverageRate *float64 `json:"average_rate,omitempty"` // °F/hour first→last reading

	PredictedMinutesToTarget *int       `json:"predicted_minutes_to_target,omitempty"`
	PredictedTargetTime      *time.Time `json:"predicted_target_time,omitempty"`

	ScheduleVarianceMinutes *float64       `json:"schedule_variance_minutes,omitempty"`
	ScheduleStatus          ScheduleStatus `json:"schedule_status"`

	Confidence Confidence `json:"confidence"`
}

// Action is the oven adjustment verdict.
type Action string

const (
	ActionRaise   Action = "raise"
	ActionLower   Action = "lower"
	ActionHold    Action = "hold"
	ActionOvenOff Action = "oven-off"
	ActionNone    Action = "none"
)

// Severity qualifies how strongly a recommendation should be surfaced.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityNormal   Severity = "normal"
	SeverityModerate Severity = "moderate"
	SeverityUrgent   Severity = "urgent"
	SeverityWarning  Severity = "warning"
)

// BlockerType identifies which eligibility check failed first.
type BlockerType string

const (
	BlockerInsufficientReadings   BlockerType = "insufficient_readings"
	BlockerInsufficientTime       BlockerType = "insufficient_time"
	BlockerNoOvenData             BlockerType = "no_oven_data"
	BlockerStaleOvenData          BlockerType = "stale_oven_data"
	BlockerInsufficientConfidence BlockerType = "insufficient_confidence"
	BlockerNoServeTime            BlockerType = "no_serve_time"
	BlockerBadRate                BlockerType = "bad_rate"
	BlockerUnstableRate           BlockerType = "unstable_rate"
)

// Progress reports how far along a not-yet-met precondition is.
type Progress struct {
	Current  float64 `json:"current"`
	Required float64 `json:"required"`
}

// Recommendation is the actionable output: either a gated adjustment or an
// explanation of the first precondition that blocked one.
type Recommendation struct {
	Action         Action      `json:"action"`
	SuggestedTempF *float64    `json:"suggested_temp_f,omitempty"`
	ChangeAmountF  *float64    `json:"change_amount_f,omitempty"` // signed, post-clamp
	Message        string      `json:"message"`
	Reasoning      string      `json:"reasoning"`
	Severity       Severity    `json:"severity"`
	CanRecommend   bool        `json:"can_recommend"`
	BlockerType    BlockerType `json:"blocker_type,omitempty"`
	BlockerReason  string      `json:"blocker_reason,omitempty"`
	Progress       *Progress   `json:"progress,omitempty"`
}

// Result bundles everything the orchestrator produces for one snapshot.
type Result struct {
	Calculation    CalculationResult `json:"calculation"`
	Recommendation Recommendation    `json:"recommendation"`
}
