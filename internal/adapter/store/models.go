package store

import (
	"time"

	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
)

// peakRow is one catalog entry in the peaks table.
type peakRow struct {
	ID                  string `gorm:"primaryKey"`
	Name                string
	Latitude            *float64
	Longitude           *float64
	ElevationFt         float64
	ForecastElevationFt *float64
}

func (peakRow) TableName() string { return "peaks" }

func (r peakRow) toDomain() domain.PeakLocation {
	return domain.PeakLocation{
		ID:                  r.ID,
		Name:                r.Name,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		ElevationFt:         r.ElevationFt,
		ForecastElevationFt: r.ForecastElevationFt,
	}
}

func peakFromDomain(p domain.PeakLocation) peakRow {
	return peakRow{
		ID:                  p.ID,
		Name:                p.Name,
		Latitude:            p.Latitude,
		Longitude:           p.Longitude,
		ElevationFt:         p.ElevationFt,
		ForecastElevationFt: p.ForecastElevationFt,
	}
}

// forecastRow is the persisted ForecastRecord, one row per peak. Nested
// structures are stored as JSON documents.
type forecastRow struct {
	PeakID         string                        `gorm:"primaryKey"`
	Forecast       domain.Forecast               `gorm:"serializer:json"`
	AdjustedHours  []domain.AdjustedHourlySample `gorm:"serializer:json"`
	HourlyRisk     []domain.HourlyRisk           `gorm:"serializer:json"`
	SummitWindow   domain.SummitWindow           `gorm:"serializer:json"`
	ConditionFlags domain.ConditionFlags         `gorm:"serializer:json"`
	RiskScore      int
	RiskLevel      string
	StormEta       *time.Time
	// Stamped by the pipeline clock, never by gorm.
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (forecastRow) TableName() string { return "peak_forecasts" }

func forecastFromDomain(r domain.ForecastRecord) forecastRow {
	return forecastRow{
		PeakID:         r.PeakID,
		Forecast:       r.Forecast,
		AdjustedHours:  r.AdjustedHours,
		HourlyRisk:     r.HourlyRisk,
		SummitWindow:   r.SummitWindow,
		ConditionFlags: r.ConditionFlags,
		RiskScore:      r.RiskScore,
		RiskLevel:      string(r.RiskLevel),
		StormEta:       r.StormEta,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r forecastRow) toDomain() domain.ForecastRecord {
	return domain.ForecastRecord{
		PeakID:         r.PeakID,
		Forecast:       r.Forecast,
		AdjustedHours:  r.AdjustedHours,
		HourlyRisk:     r.HourlyRisk,
		SummitWindow:   r.SummitWindow,
		RiskScore:      r.RiskScore,
		RiskLevel:      domain.RiskLevel(r.RiskLevel),
		ConditionFlags: r.ConditionFlags,
		StormEta:       r.StormEta,
		UpdatedAt:      r.UpdatedAt,
	}
}
