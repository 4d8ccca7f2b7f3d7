package coach

// Config carries every tunable threshold used by the coaching core. It is a
// plain value passed explicitly into each operation: the core reads no global
// state, so identical inputs always produce identical outputs.
type Config struct {
	// MaxHRWarning is the heart rate (bpm) above which a high-HR alert fires.
	MaxHRWarning int
	// HardStopMargin is how far above MaxHRWarning the heart rate must be
	// before recommendations are replaced by a stop-and-recover advice.
	HardStopMargin int

	MinAge int
	MaxAge int

	MinSessionMinutes     int
	MaxSessionMinutes     int
	DefaultSessionMinutes int

	// AvgHRCeiling is the sanity limit for a session's average heart rate.
	AvgHRCeiling int

	AnalyticsWindowDays int
	// ConsistencyThreshold is the session count in the analytics window at
	// which the consistency insight fires.
	ConsistencyThreshold int

	MaxRecommendations int

	// CalorieFactor calibrates the linear calorie estimate
	// (minutes × avg bpm × kg × factor). An estimate, not a measurement.
	CalorieFactor float64
}

// DefaultConfig returns the built-in thresholds. Deployments override these
// through the config file's coach section.
func DefaultConfig() Config {
	return Config{
		MaxHRWarning:          180,
		HardStopMargin:        15,
		MinAge:                13,
		MaxAge:                120,
		MinSessionMinutes:     5,
		MaxSessionMinutes:     180,
		DefaultSessionMinutes: 30,
		AvgHRCeiling:          250,
		AnalyticsWindowDays:   30,
		ConsistencyThreshold:  8,
		MaxRecommendations:    5,
		CalorieFactor:         0.001,
	}
}
