//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	kafkaadapter "github.com/couchcryptid/summit-forecast-etl/internal/adapter/kafka"
	"github.com/couchcryptid/summit-forecast-etl/internal/adapter/openweather"
	"github.com/couchcryptid/summit-forecast-etl/internal/adapter/store"
	"github.com/couchcryptid/summit-forecast-etl/internal/config"
	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	"github.com/couchcryptid/summit-forecast-etl/internal/observability"
	"github.com/couchcryptid/summit-forecast-etl/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "test-peak-forecasts"

func ptr[T any](v T) *T { return &v }

// fixtureProvider serves the recorded OpenWeatherMap payloads for every position.
func fixtureProvider(t *testing.T) *httptest.Server {
	t.Helper()
	dir := filepath.Join("..", "adapter", "openweather", "testdata")
	current, err := os.ReadFile(filepath.Join(dir, "current.json"))
	require.NoError(t, err)
	forecast, err := os.ReadFile(filepath.Join(dir, "forecast.json"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /data/2.5/weather", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(current)
	})
	mux.HandleFunc("GET /data/2.5/forecast", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(forecast)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestPipelineEndToEnd runs one batch against real Postgres and Kafka and
// checks the persisted rows and the published events.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	dsn := startPostgres(ctx, t)
	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	db, err := store.Open(store.DriverPostgres, dsn, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	require.NoError(t, db.UpsertPeaks(ctx, []domain.PeakLocation{
		{ID: "rainier", Name: "Mount Rainier", Latitude: ptr(46.8523), Longitude: ptr(-121.7603), ElevationFt: 14411},
		{ID: "unsurveyed", ElevationFt: 12000},
	}))

	provider := fixtureProvider(t)
	metrics := observability.NewMetricsForTesting()
	fetcher := openweather.NewClient(provider.URL, 5*time.Second, metrics, discardLogger())
	writer := kafkaadapter.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(db, fetcher, db, writer, pipeline.Options{
		APIKey: "integration-key",
		Model:  domain.DefaultHazardModel(),
	}, discardLogger(), metrics)

	summary, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 2, summary.Total)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "unsurveyed", summary.Errors[0].Location)
	assert.Equal(t, domain.StageFetching, summary.Errors[0].Stage)

	rec, err := db.GetForecast(ctx, "rainier")
	require.NoError(t, err)
	assert.Len(t, rec.Forecast.Hourly, 3)
	assert.Len(t, rec.AdjustedHours, 3)
	assert.Len(t, rec.HourlyRisk, 3)
	assert.Equal(t, -28800, rec.Forecast.TimezoneOffset)
	assert.True(t, rec.ConditionFlags.ThunderstormRisk, "fixture ends in a thunderstorm sample")
	assert.NotEmpty(t, rec.RiskLevel)

	_, err = db.GetForecast(ctx, "unsurveyed")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// A second run overwrites rather than appends.
	_, err = p.Run(ctx)
	require.NoError(t, err)
	again, err := db.GetForecast(ctx, "rainier")
	require.NoError(t, err)
	assert.False(t, again.UpdatedAt.Before(rec.UpdatedAt))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read forecast event")

	assert.Equal(t, "rainier", string(msg.Key))
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, string(rec.RiskLevel), headers["risk_level"])

	var event kafkaadapter.ForecastUpdated
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, summary.RunID, event.RunID)
	assert.Equal(t, rec.RiskScore, event.RiskScore)
}
