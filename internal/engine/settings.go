package engine

// Settings holds every tunable threshold the engine consults. It is owned by
// the caller and read-only inside the engine; zero values are not meaningful,
// start from DefaultSettings and override fields as needed.
type Settings struct {
	// SmoothingWindow is the number of trailing readings the rate regression
	// runs over.
	SmoothingWindow int

	// OnTrackThresholdMin is the ± band (minutes) around the serve time inside
	// which a predicted finish counts as on-track.
	OnTrackThresholdMin float64

	// StepF is the base oven adjustment; MaxStepF caps any single suggestion.
	StepF    float64
	MaxStepF float64

	// Oven guardrails. PracticalMinF replaces OvenTempMinF as the floor unless
	// AllowLowTemp is set.
	OvenTempMinF  float64
	OvenTempMaxF  float64
	PracticalMinF float64
	AllowLowTemp  bool

	// Recommendation eligibility.
	MinReadingsForRec int
	MinTimeSpanMin    float64
	OvenTempStaleMin  float64

	// ThermalLagMin is how long after a setting change readings are ignored in
	// responsiveness analysis.
	ThermalLagMin float64

	// MinUsefulRatePerHour: rates at or below this are treated as no progress.
	MinUsefulRatePerHour float64
}

// DefaultSettings are the documented defaults; temperatures in °F.
func DefaultSettings() Settings {
	return Settings{
		SmoothingWindow:      3,
		OnTrackThresholdMin:  10,
		StepF:                10,
		MaxStepF:             25,
		OvenTempMinF:         150,
		OvenTempMaxF:         300,
		PracticalMinF:        200,
		AllowLowTemp:         false,
		MinReadingsForRec:    3,
		MinTimeSpanMin:       30,
		OvenTempStaleMin:     60,
		ThermalLagMin:        15,
		MinUsefulRatePerHour: 0.5,
	}
}

// ovenFloor is the effective lower guardrail given the low-temp flag.
func (s Settings) ovenFloor() float64 {
	if s.AllowLowTemp {
		return s.OvenTempMinF
	}
	return s.PracticalMinF
}
