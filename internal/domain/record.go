package domain

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Stage is a step of the per-peak pipeline. Persisted and Failed are terminal.
type Stage string

const (
	StagePending   Stage = "pending"
	StageFetching  Stage = "fetching"
	StageAdjusting Stage = "adjusting"
	StageScoring   Stage = "scoring"
	StageAnalyzing Stage = "analyzing"
	StagePersisted Stage = "persisted"
	StageFailed    Stage = "failed"
)

// ForecastRecord is the persisted forecast for one peak. Each run overwrites
// the previous record for the same PeakID.
type ForecastRecord struct {
	PeakID         string                 `json:"peak_id"`
	Forecast       Forecast               `json:"forecast"`
	AdjustedHours  []AdjustedHourlySample `json:"adjusted_hours"`
	HourlyRisk     []HourlyRisk           `json:"hourly_risk"`
	SummitWindow   SummitWindow           `json:"summit_window"`
	RiskScore      int                    `json:"risk_score"`
	RiskLevel      RiskLevel              `json:"risk_level"`
	ConditionFlags ConditionFlags         `json:"condition_flags"`
	StormEta       *time.Time             `json:"storm_eta"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// BuildRecord runs adjust, score, and analysis for a fetched forecast and
// assembles the record. It is the pure part of the per-peak pipeline.
func BuildRecord(peak PeakLocation, fc Forecast, m HazardModel) ForecastRecord {
	adjusted := AdjustForecast(fc.Hourly, peak, m)
	risks := ScoreHours(adjusted, m)
	return AssembleRecord(peak, fc, adjusted, risks, m)
}

// AssembleRecord derives the window, headline, and flags from already adjusted
// and scored samples.
func AssembleRecord(peak PeakLocation, fc Forecast, adjusted []AdjustedHourlySample, risks []HourlyRisk, m HazardModel) ForecastRecord {
	window := AnalyzeSummitWindow(risks, fc.TimezoneOffset, m)
	overall := CalculateOverallRisk(risks, m)

	var stormEta *time.Time
	if window.StormEta != nil {
		t := time.Unix(*window.StormEta, 0).UTC()
		stormEta = &t
	}

	return ForecastRecord{
		PeakID:         peak.ID,
		Forecast:       fc,
		AdjustedHours:  adjusted,
		HourlyRisk:     risks,
		SummitWindow:   window,
		RiskScore:      overall.Score,
		RiskLevel:      overall.Level,
		ConditionFlags: DeriveConditionFlags(adjusted, m),
		StormEta:       stormEta,
		UpdatedAt:      clock.Now().UTC(),
	}
}

// LocationError reports why one peak was not persisted.
type LocationError struct {
	Location string `json:"location"`
	Stage    Stage  `json:"stage,omitempty"`
	Message  string `json:"error"`
}

// RunSummary is the result of one batch run.
type RunSummary struct {
	RunID     string          `json:"run_id,omitempty"`
	Processed int             `json:"processed"`
	Total     int             `json:"total"`
	Errors    []LocationError `json:"errors,omitempty"`
}

// Err folds the per-peak failures into one error, or nil when every peak was persisted.
func (s RunSummary) Err() error {
	var result *multierror.Error
	for _, e := range s.Errors {
		result = multierror.Append(result, fmt.Errorf("peak %s (%s): %s", e.Location, e.Stage, e.Message))
	}
	return result.ErrorOrNil()
}
