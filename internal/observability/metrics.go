package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "summit_forecast"

// Metrics holds the Prometheus counters, histograms, and gauges for the forecast pipeline.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec // labels: outcome={success,partial,error}
	RunDuration   prometheus.Histogram
	RunInProgress prometheus.Gauge
	CatalogSize   prometheus.Gauge

	// Per-peak outcomes.
	LocationsTotal *prometheus.CounterVec // labels: stage={persisted,failed}
	FailuresTotal  *prometheus.CounterVec // labels: stage at which the peak failed

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: endpoint={weather,forecast}, outcome={success,error}
	ProviderDuration *prometheus.HistogramVec // labels: endpoint

	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RunInProgress,
		m.CatalogSize,
		m.LocationsTotal,
		m.FailuresTotal,
		m.ProviderRequests,
		m.ProviderDuration,
		m.EventsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      help("Batch runs by outcome."),
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      help("Duration of a complete batch run across the catalog."),
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RunInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_in_progress",
			Help:      help("1 while a batch run is executing, 0 otherwise."),
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_size",
			Help:      help("Number of peaks read from the catalog by the last run."),
		}),
		LocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locations_total",
			Help:      help("Peaks processed by terminal stage."),
		}, []string{"stage"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_failures_total",
			Help:      help("Peak failures by the stage that was executing."),
		}, []string{"stage"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      help("Weather provider requests by endpoint and outcome."),
		}, []string{"endpoint", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      help("Weather provider request duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      help("Forecast-updated events written to Kafka."),
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      help("Forecast-updated events that could not be written."),
		}),
	}
}
