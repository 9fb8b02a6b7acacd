package domain

// ConditionFlags are independent hazard indicators for the next HeadlineSamples samples.
type ConditionFlags struct {
	WindRisk         bool `json:"wind_risk"`
	ThunderstormRisk bool `json:"thunderstorm_risk"`
	SnowRisk         bool `json:"snow_risk"`
	WhiteoutRisk     bool `json:"whiteout_risk"`
	ExtremeColdRisk  bool `json:"extreme_cold_risk"`
}

// DeriveConditionFlags sets each flag when any leading sample meets its
// condition. Whiteout requires all three conditions on the same sample.
func DeriveConditionFlags(hours []AdjustedHourlySample, m HazardModel) ConditionFlags {
	var f ConditionFlags
	for _, h := range leading(hours, m.HeadlineSamples) {
		snow := h.PrecipType == PrecipSnowOrMixed
		if h.WindSpeed > m.FlagWindMph {
			f.WindRisk = true
		}
		if isThunderstorm(h.Weather.ID) {
			f.ThunderstormRisk = true
		}
		if snow {
			f.SnowRisk = true
		}
		if snow && h.Clouds >= m.WhiteoutMinClouds && h.Pop >= m.WhiteoutMinPop {
			f.WhiteoutRisk = true
		}
		if h.WindChill <= m.ExtremeColdWindChillF {
			f.ExtremeColdRisk = true
		}
	}
	return f
}
