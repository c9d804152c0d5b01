package engine

import (
	"math"

	"roastwatch"
)

// minAverageSpanHours guards the whole-session secant against near-zero
// elapsed time blowing the division up.
const minAverageSpanHours = 0.01

// RateEstimate is the output of the smoothing-window regression.
type RateEstimate struct {
	// RatePerHour is the fitted slope in °F/hour, nil when no fit is possible.
	RatePerHour *float64 `json:"rate_per_hour,omitempty"`
	R2          float64  `json:"r2"`
	SampleCount int      `json:"sample_count"`
}

// EstimateRate fits temperature = slope·hours + intercept by ordinary least
// squares over the last `window` readings. Timestamps are converted to hours
// elapsed since the first reading in the window. Returns a nil rate when
// fewer than 2 readings exist or when all window timestamps coincide.
func EstimateRate(readings []roastwatch.Reading, window int) RateEstimate {
	if window < 2 {
		window = 2
	}
	if len(readings) < 2 {
		return RateEstimate{SampleCount: len(readings)}
	}
	if len(readings) > window {
		readings = readings[len(readings)-window:]
	}

	n := float64(len(readings))
	t0 := readings[0].TakenAt

	var sumX, sumY, sumXY, sumXX float64
	for _, r := range readings {
		x := r.TakenAt.Sub(t0).Hours()
		y := r.TempF
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	// Guard the denominator explicitly; identical timestamps must not reach
	// the division.
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return RateEstimate{SampleCount: len(readings)}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	// Coefficient of determination; a flat window (no temperature variance)
	// reports 0 rather than 0/0.
	meanY := sumY / n
	var ssRes, ssTot float64
	for _, r := range readings {
		x := r.TakenAt.Sub(t0).Hours()
		predicted := slope*x + intercept
		ssRes += (r.TempF - predicted) * (r.TempF - predicted)
		ssTot += (r.TempF - meanY) * (r.TempF - meanY)
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	rate := roundTo(slope, 2)
	return RateEstimate{
		RatePerHour: &rate,
		R2:          roundTo(r2, 3),
		SampleCount: len(readings),
	}
}

// AverageRate is the whole-session secant rate in °F/hour, from the first
// reading to the last. Returns nil with fewer than 2 readings or an elapsed
// span too small to divide by safely.
func AverageRate(readings []roastwatch.Reading) *float64 {
	if len(readings) < 2 {
		return nil
	}
	first := readings[0]
	last := readings[len(readings)-1]
	hours := last.TakenAt.Sub(first.TakenAt).Hours()
	if hours < minAverageSpanHours {
		return nil
	}
	rate := roundTo((last.TempF-first.TempF)/hours, 2)
	return &rate
}

// roundTo rounds v to the given number of decimal places so that downstream
// comparisons are reproducible across invocations.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
