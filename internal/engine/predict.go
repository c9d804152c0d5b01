package engine

import (
	"math"
	"time"
)

// TimeToTarget is the minutes-and-ETA pair for reaching the target
// temperature at the current rate. Both fields are nil when no useful rate
// exists; Minutes is 0 and TargetTime equals "now" when the target is
// already met or exceeded.
type TimeToTarget struct {
	Minutes    *int       `json:"minutes,omitempty"`
	TargetTime *time.Time `json:"target_time,omitempty"`
}

// PredictTimeToTarget converts the remaining temperature gap and the current
// rate into minutes to target and an absolute ETA. A nil, zero, or
// below-useful rate yields no prediction rather than a nonsense one.
func PredictTimeToTarget(currentF, targetF float64, ratePerHour *float64, now time.Time, s Settings) TimeToTarget {
	if ratePerHour == nil || *ratePerHour <= s.MinUsefulRatePerHour {
		return TimeToTarget{}
	}
	remaining := targetF - currentF
	if remaining <= 0 {
		zero := 0
		t := now
		return TimeToTarget{Minutes: &zero, TargetTime: &t}
	}
	minutes := int(math.Round(60 * remaining / *ratePerHour))
	eta := now.Add(time.Duration(minutes) * time.Minute)
	return TimeToTarget{Minutes: &minutes, TargetTime: &eta}
}

// ScheduleVariance is the signed minute difference between predicted and
// desired completion, positive when the cook is running late.
type ScheduleVariance struct {
	VarianceMinutes *float64       `json:"variance_minutes,omitempty"`
	Status          ScheduleStatus `json:"status"`
}

// AssessSchedule compares the predicted finish against the desired serve
// time. Within ±thresholdMin counts as on-track; missing inputs yield
// an unknown status with no variance.
func AssessSchedule(predicted, desired *time.Time, thresholdMin float64) ScheduleVariance {
	if predicted == nil || desired == nil {
		return ScheduleVariance{Status: StatusUnknown}
	}
	variance := roundTo(predicted.Sub(*desired).Minutes(), 1)
	status := StatusOnTrack
	switch {
	case variance < -thresholdMin:
		status = StatusEarly
	case variance > thresholdMin:
		status = StatusLate
	}
	return ScheduleVariance{VarianceMinutes: &variance, Status: status}
}
