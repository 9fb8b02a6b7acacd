package domain

import "math"

// RiskLevel buckets a hazard score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskExtreme  RiskLevel = "EXTREME"
)

// HourlyRisk is the hazard score of one adjusted sample.
type HourlyRisk struct {
	Dt    int64     `json:"dt"`
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}

// OverallRisk is the headline score for a forecast.
type OverallRisk struct {
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}

// Level maps a score to its bucket, checking thresholds from safest down.
func (m HazardModel) Level(score int) RiskLevel {
	switch {
	case score >= m.LowMinScore:
		return RiskLow
	case score >= m.ModerateMinScore:
		return RiskModerate
	case score >= m.HighMinScore:
		return RiskHigh
	default:
		return RiskExtreme
	}
}

// ScoreHour subtracts every applicable penalty from 100. Penalties stack and
// the result is clamped to [0, 100].
func ScoreHour(h AdjustedHourlySample, m HazardModel) HourlyRisk {
	score := 100
	if isThunderstorm(h.Weather.ID) {
		score -= m.ThunderstormPenalty
	}
	if h.WindSpeed >= m.HighWindMph {
		score -= m.HighWindPenalty
	}
	if h.WindGust >= m.HighGustMph {
		score -= m.HighGustPenalty
	}
	if h.Pop >= m.HighPop {
		score -= m.HighPopPenalty
	}
	if h.WindChill <= m.ColdWindChillF {
		score -= m.ColdWindChillPenalty
	}
	if h.Temp <= m.ColdTempF {
		score -= m.ColdTempPenalty
	}
	if h.PrecipType == PrecipSnowOrMixed {
		score -= m.SnowPenalty
	}
	score = clampScore(score)
	return HourlyRisk{Dt: h.Dt, Score: score, Level: m.Level(score)}
}

// ScoreHours scores each sample in order.
func ScoreHours(hours []AdjustedHourlySample, m HazardModel) []HourlyRisk {
	out := make([]HourlyRisk, len(hours))
	for i, h := range hours {
		out[i] = ScoreHour(h, m)
	}
	return out
}

// CalculateOverallRisk averages the leading HeadlineSamples scores. No data is
// not treated as danger: an empty slice yields 100 / LOW.
func CalculateOverallRisk(risks []HourlyRisk, m HazardModel) OverallRisk {
	head := leading(risks, m.HeadlineSamples)
	if len(head) == 0 {
		return OverallRisk{Score: 100, Level: m.Level(100)}
	}
	scores := make([]int, len(head))
	for i, r := range head {
		scores[i] = r.Score
	}
	score := clampScore(roundedMean(scores))
	return OverallRisk{Score: score, Level: m.Level(score)}
}

func isThunderstorm(code int) bool { return code >= 200 && code < 300 }

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func roundedMean(vals []int) int {
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(vals))))
}

// leading returns at most n elements from the front of s.
func leading[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
