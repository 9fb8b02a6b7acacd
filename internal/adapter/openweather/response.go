package openweather

import "github.com/couchcryptid/summit-forecast-etl/internal/domain"

// OpenWeatherMap 2.5 response types.

type coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type wind struct {
	Speed float64  `json:"speed"`
	Deg   int      `json:"deg"`
	Gust  *float64 `json:"gust"`
}

type clouds struct {
	All int `json:"all"`
}

// currentResponse is the /data/2.5/weather payload.
type currentResponse struct {
	Coord      coord       `json:"coord"`
	Weather    []condition `json:"weather"`
	Main       mainBlock   `json:"main"`
	Visibility int         `json:"visibility"`
	Wind       wind        `json:"wind"`
	Clouds     clouds      `json:"clouds"`
	Dt         int64       `json:"dt"`
	Timezone   int         `json:"timezone"`
	Name       string      `json:"name"`
}

// forecastResponse is the /data/2.5/forecast payload: 3 hour steps over 5 days.
type forecastResponse struct {
	List []forecastEntry `json:"list"`
	City struct {
		Coord    coord `json:"coord"`
		Timezone int   `json:"timezone"`
	} `json:"city"`
}

type forecastEntry struct {
	Dt         int64       `json:"dt"`
	Main       mainBlock   `json:"main"`
	Weather    []condition `json:"weather"`
	Clouds     clouds      `json:"clouds"`
	Wind       wind        `json:"wind"`
	Visibility int         `json:"visibility"`
	Pop        float64     `json:"pop"`
}

// currentConditions is the normalized view of the current endpoint. Only the
// location and timezone feed the rest of the pipeline.
type currentConditions struct {
	Lat, Lon       float64
	TimezoneOffset int
	Sample         domain.RawHourlySample
}

// hourlySeries is the normalized view of the forecast endpoint.
type hourlySeries struct {
	Lat, Lon       float64
	TimezoneOffset int
	Samples        []domain.RawHourlySample
}

func normalizeCurrent(r currentResponse) currentConditions {
	return currentConditions{
		Lat:            r.Coord.Lat,
		Lon:            r.Coord.Lon,
		TimezoneOffset: r.Timezone,
		Sample: domain.RawHourlySample{
			Dt:         r.Dt,
			Temp:       r.Main.Temp,
			FeelsLike:  r.Main.FeelsLike,
			Humidity:   r.Main.Humidity,
			Clouds:     r.Clouds.All,
			Visibility: r.Visibility,
			WindSpeed:  r.Wind.Speed,
			WindGust:   r.Wind.Gust,
			WindDeg:    r.Wind.Deg,
			Weather:    firstCondition(r.Weather),
		},
	}
}

func normalizeForecast(r forecastResponse) hourlySeries {
	samples := make([]domain.RawHourlySample, 0, len(r.List))
	for _, e := range r.List {
		samples = append(samples, domain.RawHourlySample{
			Dt:         e.Dt,
			Temp:       e.Main.Temp,
			FeelsLike:  e.Main.FeelsLike,
			Humidity:   e.Main.Humidity,
			Clouds:     e.Clouds.All,
			Visibility: e.Visibility,
			WindSpeed:  e.Wind.Speed,
			WindGust:   e.Wind.Gust,
			WindDeg:    e.Wind.Deg,
			Pop:        e.Pop,
			Weather:    firstCondition(e.Weather),
		})
	}
	return hourlySeries{
		Lat:            r.City.Coord.Lat,
		Lon:            r.City.Coord.Lon,
		TimezoneOffset: r.City.Timezone,
		Samples:        samples,
	}
}

// merge prefers the current endpoint's location context and falls back to the
// forecast city block when the current payload omits it.
func merge(cur currentConditions, series hourlySeries) domain.Forecast {
	f := domain.Forecast{
		Lat:            cur.Lat,
		Lon:            cur.Lon,
		TimezoneOffset: cur.TimezoneOffset,
		Current:        cur.Sample,
		Hourly:         series.Samples,
	}
	if f.Lat == 0 && f.Lon == 0 {
		f.Lat, f.Lon = series.Lat, series.Lon
	}
	if f.TimezoneOffset == 0 {
		f.TimezoneOffset = series.TimezoneOffset
	}
	return f
}

func firstCondition(cs []condition) domain.Condition {
	if len(cs) == 0 {
		return domain.Condition{}
	}
	c := cs[0]
	return domain.Condition{ID: c.ID, Main: c.Main, Description: c.Description, Icon: c.Icon}
}
