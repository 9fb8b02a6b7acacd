// Package domain models elevation-adjusted mountain forecasts for a catalog of
// named summits ("peaks").
//
// # Data Source
//
// Observations come from the OpenWeatherMap current-conditions and 5 day /
// 3 hour forecast endpoints in imperial units. Both responses are normalized
// into a [Forecast]: coordinates, the provider's timezone offset in seconds, one
// current sample, and an ordered hourly sequence. Only the hourly sequence is
// adjusted and scored; the current sample carries location context.
//
// # Elevation Adjustment
//
// Provider data describes the forecast reference elevation (9000 ft unless the
// catalog says otherwise). [AdjustHour] corrects each sample to the summit:
//
//	temperature:  t - (diffFt / 1000) * 3.5          (lapse rate, °F)
//	wind speed:   w * (1 + diffFt / 10000)           (linear amplification)
//	gust:         (gust or w) * 1.3
//	pop:          min(pop * 1.15, 1.0)
//	wind chill:   35.74 + 0.6215T - 35.75V^0.16 + 0.4275TV^0.16
//	              when T <= 50 °F and V >= 3 mph, otherwise T
//
// Temperatures and winds are stored with one decimal, probabilities with two,
// so persisted values compare equal across runs.
//
// # Hazard Scoring
//
// Every hour starts at 100 and loses points for each hazard present. Penalties
// stack:
//
//	thunderstorm (condition 2xx)   -40
//	wind >= 35 mph                 -25
//	gust >= 50 mph                 -15
//	pop >= 0.6                     -15
//	wind chill <= 10 °F            -15
//	temperature <= 0 °F            -10
//	snow or mixed precipitation    -10
//
// Scores are clamped to [0, 100] and bucketed: >=80 LOW, >=60 MODERATE,
// >=40 HIGH, else EXTREME. The headline score is the rounded mean of the first
// 24 samples; an empty forecast scores 100 (LOW).
//
// All thresholds live in [HazardModel] so alternate models can be substituted.
package domain
