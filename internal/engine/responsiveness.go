package engine

import (
	"math"
	"time"

	"roastwatch"
)

// minSegmentSpanHours is the shortest usable post-lag reading span inside a
// single oven-setting segment.
const minSegmentSpanHours = 0.1

// SegmentRate is the observed heating rate while one oven setting was active.
type SegmentRate struct {
	OvenTempF    float64   `json:"oven_temp_f"`
	RatePerHour  float64   `json:"rate_per_hour"`
	ReadingCount int       `json:"reading_count"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// ResponsivenessAnalysis correlates oven settings with the heating rates
// observed under them. Strictly advisory: a nil analysis never blocks or
// alters the primary recommendation.
type ResponsivenessAnalysis struct {
	Segments    []SegmentRate `json:"segments"`
	Correlation float64       `json:"correlation"` // Pearson, setting vs. rate
	// DegreesPerOvenDegree is Δrate / Δsetting across the observed setting range.
	DegreesPerOvenDegree float64 `json:"degrees_per_oven_degree"`
}

// AnalyzeResponsiveness segments the session by oven-setting period, computes
// a rate for each segment from readings taken after the thermal lag, and
// correlates setting against rate. Returns nil whenever fewer than two
// segments produce a usable rate.
func AnalyzeResponsiveness(snap Snapshot, s Settings) *ResponsivenessAnalysis {
	if len(snap.OvenEvents) == 0 || len(snap.Readings) < 2 {
		return nil
	}

	lag := time.Duration(s.ThermalLagMin * float64(time.Minute))
	var segments []SegmentRate
	for i, ev := range snap.OvenEvents {
		end := snap.Now
		if i+1 < len(snap.OvenEvents) {
			end = snap.OvenEvents[i+1].OccurredAt
		}
		settled := ev.OccurredAt.Add(lag)
		if seg, ok := segmentRate(snap.Readings, ev.SetTempF, settled, end); ok {
			segments = append(segments, seg)
		}
	}
	if len(segments) < 2 {
		return nil
	}

	corr, ok := pearson(segments)
	if !ok {
		return nil
	}

	coeff, ok := responsivenessCoefficient(segments)
	if !ok {
		return nil
	}

	return &ResponsivenessAnalysis{
		Segments:             segments,
		Correlation:          roundTo(corr, 3),
		DegreesPerOvenDegree: roundTo(coeff, 4),
	}
}

// segmentRate computes the secant rate over readings inside (settled, end).
// A segment counts only with ≥2 readings spanning more than the minimum.
func segmentRate(readings []roastwatch.Reading, ovenF float64, settled, end time.Time) (SegmentRate, bool) {
	var inSeg []roastwatch.Reading
	for _, r := range readings {
		if r.TakenAt.After(settled) && r.TakenAt.Before(end) {
			inSeg = append(inSeg, r)
		}
	}
	if len(inSeg) < 2 {
		return SegmentRate{}, false
	}
	first, last := inSeg[0], inSeg[len(inSeg)-1]
	hours := last.TakenAt.Sub(first.TakenAt).Hours()
	if hours <= minSegmentSpanHours {
		return SegmentRate{}, false
	}
	return SegmentRate{
		OvenTempF:    ovenF,
		RatePerHour:  roundTo((last.TempF-first.TempF)/hours, 2),
		ReadingCount: len(inSeg),
		Start:        first.TakenAt,
		End:          last.TakenAt,
	}, true
}

// pearson is the correlation between segment oven settings and segment rates.
// Reports false when either series has no variance.
func pearson(segments []SegmentRate) (float64, bool) {
	n := float64(len(segments))
	var sumX, sumY float64
	for _, seg := range segments {
		sumX += seg.OvenTempF
		sumY += seg.RatePerHour
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for _, seg := range segments {
		dx := seg.OvenTempF - meanX
		dy := seg.RatePerHour - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// responsivenessCoefficient is the rate change per oven degree between the
// coldest and hottest observed settings.
func responsivenessCoefficient(segments []SegmentRate) (float64, bool) {
	coldest, hottest := segments[0], segments[0]
	for _, seg := range segments[1:] {
		if seg.OvenTempF < coldest.OvenTempF {
			coldest = seg
		}
		if seg.OvenTempF > hottest.OvenTempF {
			hottest = seg
		}
	}
	spread := hottest.OvenTempF - coldest.OvenTempF
	if spread == 0 {
		return 0, false
	}
	return (hottest.RatePerHour - coldest.RatePerHour) / spread, true
}
