package domain

import "errors"

// ErrMissingCoordinates is returned for catalog entries without a usable position.
var ErrMissingCoordinates = errors.New("peak has no coordinates")

// PeakLocation is one catalog entry. Latitude and Longitude are nil when the
// catalog has no position for the peak.
type PeakLocation struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name,omitempty"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	ElevationFt         float64  `json:"elevation_ft"`
	ForecastElevationFt *float64 `json:"forecast_elevation_ft,omitempty"`
}

// Coordinates returns the peak position or ErrMissingCoordinates.
func (p PeakLocation) Coordinates() (lat, lon float64, err error) {
	if p.Latitude == nil || p.Longitude == nil {
		return 0, 0, ErrMissingCoordinates
	}
	lat, lon = *p.Latitude, *p.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, ErrMissingCoordinates
	}
	return lat, lon, nil
}

// ElevationDiffFt is the summit elevation minus the elevation the provider
// forecast describes, falling back to the model default reference elevation.
func (p PeakLocation) ElevationDiffFt(m HazardModel) float64 {
	ref := m.DefaultForecastElevationFt
	if p.ForecastElevationFt != nil {
		ref = *p.ForecastElevationFt
	}
	return p.ElevationFt - ref
}

// Condition is the provider's weather condition. ID uses OpenWeatherMap
// condition codes (2xx thunderstorm, 5xx rain, 6xx snow, ...).
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// RawHourlySample is one provider sample before elevation adjustment.
// WindGust is nil when the provider omits gusts for the sample.
type RawHourlySample struct {
	Dt         int64     `json:"dt"`
	Temp       float64   `json:"temp"`
	FeelsLike  float64   `json:"feels_like"`
	Humidity   int       `json:"humidity"`
	Clouds     int       `json:"clouds"`
	Visibility int       `json:"visibility"`
	WindSpeed  float64   `json:"wind_speed"`
	WindGust   *float64  `json:"wind_gust,omitempty"`
	WindDeg    int       `json:"wind_deg"`
	Pop        float64   `json:"pop"`
	UVI        float64   `json:"uvi"`
	Weather    Condition `json:"weather"`
}

// Forecast is the normalized provider payload for one location.
type Forecast struct {
	Lat            float64           `json:"lat"`
	Lon            float64           `json:"lon"`
	TimezoneOffset int               `json:"timezone_offset"`
	Current        RawHourlySample   `json:"current"`
	Hourly         []RawHourlySample `json:"hourly"`
}
