package domain

import "time"

// SummitWindow summarizes the local-morning climbing window. Every field is nil
// when no sample falls inside the window.
type SummitWindow struct {
	BestHour       *int64 `json:"best_hour"`
	BestScore      *int   `json:"best_score"`
	MorningAverage *int   `json:"morning_average"`
	StormEta       *int64 `json:"storm_eta"`
	UnsafeAfter    *int64 `json:"unsafe_after"`
}

// AnalyzeSummitWindow finds the best morning hour and the onset of unsafe
// conditions. tzOffset is the provider's UTC offset in seconds.
func AnalyzeSummitWindow(risks []HourlyRisk, tzOffset int, m HazardModel) SummitWindow {
	var window []HourlyRisk
	for _, r := range risks {
		if inSummitWindow(r.Dt, tzOffset, m) {
			window = append(window, r)
		}
	}
	if len(window) == 0 {
		return SummitWindow{}
	}

	best := window[0]
	scores := make([]int, len(window))
	for i, r := range window {
		scores[i] = r.Score
		if r.Score > best.Score {
			best = r
		}
	}
	avg := roundedMean(scores)

	sw := SummitWindow{
		BestHour:       &best.Dt,
		BestScore:      &best.Score,
		MorningAverage: &avg,
	}

	// Storm ETA looks past the first entry across the whole horizon.
	for _, r := range risks[1:] {
		if r.Score < m.HighMinScore {
			dt := r.Dt
			sw.StormEta = &dt
			break
		}
	}

	windowStart := window[0].Dt
	for _, r := range risks {
		if r.Dt >= windowStart && r.Score < m.HighMinScore {
			dt := r.Dt
			sw.UnsafeAfter = &dt
			break
		}
	}
	return sw
}

func inSummitWindow(dt int64, tzOffset int, m HazardModel) bool {
	hour := time.Unix(dt+int64(tzOffset), 0).UTC().Hour()
	return hour >= m.SummitWindowStartHour && hour <= m.SummitWindowEndHour
}
