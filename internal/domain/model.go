package domain

// HazardModel holds every constant of the adjustment and scoring model.
// It is passed by value; callers never mutate a shared instance.
type HazardModel struct {
	// Elevation adjustment.
	LapseRatePer1000Ft         float64
	DefaultForecastElevationFt float64
	WindAmplificationPerFt     float64 // fractional wind increase per foot of elevation gain
	GustFactor                 float64
	PopEnhancement             float64
	SnowMaxTempF               float64
	WindChillMaxTempF          float64
	WindChillMinWindMph        float64

	// Per-hour penalties.
	ThunderstormPenalty  int
	HighWindMph          float64
	HighWindPenalty      int
	HighGustMph          float64
	HighGustPenalty      int
	HighPop              float64
	HighPopPenalty       int
	ColdWindChillF       float64
	ColdWindChillPenalty int
	ColdTempF            float64
	ColdTempPenalty      int
	SnowPenalty          int

	// Level thresholds, checked high to low.
	LowMinScore      int
	ModerateMinScore int
	HighMinScore     int

	// HeadlineSamples is how many leading samples feed the headline score and flags.
	HeadlineSamples int

	// Summit window in local hours, both ends inclusive.
	SummitWindowStartHour int
	SummitWindowEndHour   int

	// Condition flags.
	FlagWindMph           float64
	WhiteoutMinClouds     int
	WhiteoutMinPop        float64
	ExtremeColdWindChillF float64
}

// DefaultHazardModel returns the production model.
func DefaultHazardModel() HazardModel {
	return HazardModel{
		LapseRatePer1000Ft:         3.5,
		DefaultForecastElevationFt: 9000,
		WindAmplificationPerFt:     1.0 / 10000,
		GustFactor:                 1.3,
		PopEnhancement:             1.15,
		SnowMaxTempF:               34,
		WindChillMaxTempF:          50,
		WindChillMinWindMph:        3,

		ThunderstormPenalty:  40,
		HighWindMph:          35,
		HighWindPenalty:      25,
		HighGustMph:          50,
		HighGustPenalty:      15,
		HighPop:              0.6,
		HighPopPenalty:       15,
		ColdWindChillF:       10,
		ColdWindChillPenalty: 15,
		ColdTempF:            0,
		ColdTempPenalty:      10,
		SnowPenalty:          10,

		LowMinScore:      80,
		ModerateMinScore: 60,
		HighMinScore:     40,

		HeadlineSamples: 24,

		SummitWindowStartHour: 6,
		SummitWindowEndHour:   11,

		FlagWindMph:           35,
		WhiteoutMinClouds:     90,
		WhiteoutMinPop:        0.5,
		ExtremeColdWindChillF: 0,
	}
}
