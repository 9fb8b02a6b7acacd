package domain

import "math"

// PrecipType classifies precipitation after elevation adjustment.
type PrecipType string

const (
	PrecipNone        PrecipType = "none"
	PrecipRain        PrecipType = "rain"
	PrecipSnowOrMixed PrecipType = "snow_or_mixed"
)

// AdjustedHourlySample is a RawHourlySample corrected to summit elevation.
type AdjustedHourlySample struct {
	Dt         int64      `json:"dt"`
	Temp       float64    `json:"temp"`
	FeelsLike  float64    `json:"feels_like"`
	WindSpeed  float64    `json:"wind_speed"`
	WindGust   float64    `json:"wind_gust"`
	WindChill  float64    `json:"wind_chill"`
	WindDeg    int        `json:"wind_deg"`
	PrecipType PrecipType `json:"precip_type"`
	Pop        float64    `json:"pop"`
	Humidity   int        `json:"humidity"`
	Clouds     int        `json:"clouds"`
	Visibility int        `json:"visibility"`
	UVI        float64    `json:"uvi"`
	Weather    Condition  `json:"weather"`
}

// AdjustForecast adjusts every hourly sample for the peak. The result has the
// same length and order as hours.
func AdjustForecast(hours []RawHourlySample, peak PeakLocation, m HazardModel) []AdjustedHourlySample {
	diff := peak.ElevationDiffFt(m)
	out := make([]AdjustedHourlySample, len(hours))
	for i, h := range hours {
		out[i] = AdjustHour(h, diff, m)
	}
	return out
}

// AdjustHour applies the lapse-rate, wind, gust, and precipitation corrections
// for a summit elevationDiffFt above the forecast reference elevation.
func AdjustHour(raw RawHourlySample, elevationDiffFt float64, m HazardModel) AdjustedHourlySample {
	tempDrop := (elevationDiffFt / 1000) * m.LapseRatePer1000Ft
	temp := round1(raw.Temp - tempDrop)
	feelsLike := round1(raw.FeelsLike - tempDrop)
	wind := round1(raw.WindSpeed * (1 + elevationDiffFt*m.WindAmplificationPerFt))

	gustBase := raw.WindSpeed
	if raw.WindGust != nil {
		gustBase = *raw.WindGust
	}
	gust := round1(gustBase * m.GustFactor)

	pop := round2(math.Min(raw.Pop*m.PopEnhancement, 1.0))

	return AdjustedHourlySample{
		Dt:         raw.Dt,
		Temp:       temp,
		FeelsLike:  feelsLike,
		WindSpeed:  wind,
		WindGust:   gust,
		WindChill:  round1(windChill(temp, wind, m)),
		WindDeg:    raw.WindDeg,
		PrecipType: classifyPrecip(temp, pop, m),
		Pop:        pop,
		Humidity:   raw.Humidity,
		Clouds:     raw.Clouds,
		Visibility: raw.Visibility,
		UVI:        raw.UVI,
		Weather:    raw.Weather,
	}
}

func classifyPrecip(tempF, pop float64, m HazardModel) PrecipType {
	switch {
	case pop <= 0:
		return PrecipNone
	case tempF <= m.SnowMaxTempF:
		return PrecipSnowOrMixed
	default:
		return PrecipRain
	}
}

// windChill uses the NWS formula (°F, mph). Outside its valid range the air
// temperature is returned unchanged.
func windChill(tempF, windMph float64, m HazardModel) float64 {
	if tempF > m.WindChillMaxTempF || windMph < m.WindChillMinWindMph {
		return tempF
	}
	v := math.Pow(windMph, 0.16)
	return 35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
