package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// calmHour is an adjusted sample that triggers no penalty.
func calmHour(dt int64) AdjustedHourlySample {
	return AdjustedHourlySample{
		Dt:         dt,
		Temp:       45,
		WindSpeed:  5,
		WindGust:   8,
		WindChill:  43,
		PrecipType: PrecipNone,
		Weather:    Condition{ID: 800, Main: "Clear"},
	}
}

func TestLevel_Boundaries(t *testing.T) {
	m := DefaultHazardModel()
	cases := []struct {
		score int
		want  RiskLevel
	}{
		{100, RiskLow},
		{80, RiskLow},
		{79, RiskModerate},
		{60, RiskModerate},
		{59, RiskHigh},
		{40, RiskHigh},
		{39, RiskExtreme},
		{0, RiskExtreme},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, m.Level(tc.score), "score %d", tc.score)
	}
}

func TestScoreHour_CalmIsPerfect(t *testing.T) {
	got := ScoreHour(calmHour(42), DefaultHazardModel())
	assert.Equal(t, HourlyRisk{Dt: 42, Score: 100, Level: RiskLow}, got)
}

func TestScoreHour_SinglePenalties(t *testing.T) {
	m := DefaultHazardModel()
	cases := []struct {
		name   string
		mutate func(h *AdjustedHourlySample)
		want   int
	}{
		{name: "thunderstorm 200", mutate: func(h *AdjustedHourlySample) { h.Weather.ID = 200 }, want: 60},
		{name: "thunderstorm 299", mutate: func(h *AdjustedHourlySample) { h.Weather.ID = 299 }, want: 60},
		{name: "code 300 is drizzle", mutate: func(h *AdjustedHourlySample) { h.Weather.ID = 300 }, want: 100},
		{name: "wind at threshold", mutate: func(h *AdjustedHourlySample) { h.WindSpeed = 35 }, want: 75},
		{name: "wind below threshold", mutate: func(h *AdjustedHourlySample) { h.WindSpeed = 34.9 }, want: 100},
		{name: "gust at threshold", mutate: func(h *AdjustedHourlySample) { h.WindGust = 50 }, want: 85},
		{name: "pop at threshold", mutate: func(h *AdjustedHourlySample) { h.Pop = 0.6 }, want: 85},
		{name: "wind chill at threshold", mutate: func(h *AdjustedHourlySample) { h.WindChill = 10 }, want: 85},
		{name: "temperature at zero", mutate: func(h *AdjustedHourlySample) { h.Temp = 0 }, want: 90},
		{name: "snow", mutate: func(h *AdjustedHourlySample) { h.PrecipType = PrecipSnowOrMixed }, want: 90},
		{name: "rain carries no penalty", mutate: func(h *AdjustedHourlySample) { h.PrecipType = PrecipRain }, want: 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := calmHour(0)
			tc.mutate(&h)
			assert.Equal(t, tc.want, ScoreHour(h, m).Score)
		})
	}
}

func TestScoreHour_PenaltiesStack(t *testing.T) {
	h := AdjustedHourlySample{
		Weather:    Condition{ID: 201, Main: "Thunderstorm"},
		WindSpeed:  36,
		WindGust:   40,
		Pop:        0.65,
		WindChill:  50,
		Temp:       50,
		PrecipType: PrecipNone,
	}

	got := ScoreHour(h, DefaultHazardModel())

	assert.Equal(t, 20, got.Score)
	assert.Equal(t, RiskExtreme, got.Level)
}

func TestScoreHour_ClampedAtZero(t *testing.T) {
	h := AdjustedHourlySample{
		Weather:    Condition{ID: 211},
		WindSpeed:  60,
		WindGust:   80,
		Pop:        1,
		WindChill:  -30,
		Temp:       -5,
		PrecipType: PrecipSnowOrMixed,
	}

	got := ScoreHour(h, DefaultHazardModel())

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, RiskExtreme, got.Level)
}

func TestScoreHour_SubstitutedModel(t *testing.T) {
	m := DefaultHazardModel()
	m.ThunderstormPenalty = 90

	h := calmHour(0)
	h.Weather.ID = 202

	assert.Equal(t, 10, ScoreHour(h, m).Score)
}

func TestScoreHours_PreservesOrder(t *testing.T) {
	got := ScoreHours([]AdjustedHourlySample{calmHour(3), calmHour(1)}, DefaultHazardModel())
	assert.Equal(t, int64(3), got[0].Dt)
	assert.Equal(t, int64(1), got[1].Dt)
}

func TestCalculateOverallRisk_Empty(t *testing.T) {
	got := CalculateOverallRisk(nil, DefaultHazardModel())
	assert.Equal(t, OverallRisk{Score: 100, Level: RiskLow}, got)

	got = CalculateOverallRisk([]HourlyRisk{}, DefaultHazardModel())
	assert.Equal(t, OverallRisk{Score: 100, Level: RiskLow}, got)
}

func TestCalculateOverallRisk_OnlyLeadingSamples(t *testing.T) {
	var risks []HourlyRisk
	for i := 0; i < 24; i++ {
		risks = append(risks, HourlyRisk{Dt: int64(i), Score: 100})
	}
	for i := 24; i < 40; i++ {
		risks = append(risks, HourlyRisk{Dt: int64(i), Score: 0})
	}

	got := CalculateOverallRisk(risks, DefaultHazardModel())

	assert.Equal(t, OverallRisk{Score: 100, Level: RiskLow}, got)
}

func TestCalculateOverallRisk_RoundsMean(t *testing.T) {
	m := DefaultHazardModel()

	got := CalculateOverallRisk([]HourlyRisk{{Score: 80}, {Score: 81}}, m)
	assert.Equal(t, OverallRisk{Score: 81, Level: RiskLow}, got)

	got = CalculateOverallRisk([]HourlyRisk{{Score: 40}, {Score: 39}, {Score: 39}}, m)
	assert.Equal(t, OverallRisk{Score: 39, Level: RiskExtreme}, got)
}
