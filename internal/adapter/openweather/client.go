// Package openweather fetches current conditions and the 5 day / 3 hour
// forecast from the OpenWeatherMap 2.5 API and normalizes both into a
// domain.Forecast.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	"github.com/couchcryptid/summit-forecast-etl/internal/observability"
	"github.com/go-resty/resty/v2"
	"github.com/sourcegraph/conc/pool"
)

// DefaultBaseURL is the public OpenWeatherMap API host.
const DefaultBaseURL = "https://api.openweathermap.org"

const (
	weatherPath  = "/data/2.5/weather"
	forecastPath = "/data/2.5/forecast"

	endpointWeather  = "weather"
	endpointForecast = "forecast"

	maxErrorBody = 1024
)

// ProviderError is a non-2xx response from one of the provider endpoints.
type ProviderError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("openweather %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

// Client implements pipeline.Fetcher against OpenWeatherMap.
type Client struct {
	http    *resty.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates an OpenWeatherMap client. Requests are never retried.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: hc, metrics: metrics, logger: logger}
}

// Fetch requests both endpoints concurrently. The first failure cancels the
// sibling request and is returned.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, apiKey string) (domain.Forecast, error) {
	params := map[string]string{
		"lat":   strconv.FormatFloat(lat, 'f', -1, 64),
		"lon":   strconv.FormatFloat(lon, 'f', -1, 64),
		"units": "imperial",
		"appid": apiKey,
	}

	var (
		cur currentResponse
		fc  forecastResponse
	)
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		return c.get(ctx, endpointWeather, weatherPath, params, &cur)
	})
	p.Go(func(ctx context.Context) error {
		return c.get(ctx, endpointForecast, forecastPath, params, &fc)
	})
	if err := p.Wait(); err != nil {
		return domain.Forecast{}, err
	}

	return merge(normalizeCurrent(cur), normalizeForecast(fc)), nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params map[string]string, out any) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	c.metrics.ProviderDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w", endpoint, err)
	}

	if !resp.IsSuccess() {
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		body := resp.String()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		c.logger.Debug("provider returned error", "endpoint", endpoint, "status", resp.StatusCode())
		return &ProviderError{Endpoint: endpoint, Status: resp.StatusCode(), Body: body}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	c.metrics.ProviderRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}
