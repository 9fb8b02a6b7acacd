package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	"github.com/couchcryptid/summit-forecast-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// ErrMissingCredential aborts a run before the catalog is read.
var ErrMissingCredential = errors.New("weather provider API key is not configured")

// Catalog lists the peaks to forecast.
type Catalog interface {
	ListPeaks(ctx context.Context) ([]domain.PeakLocation, error)
}

// Fetcher retrieves the normalized provider forecast for one position.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64, apiKey string) (domain.Forecast, error)
}

// Store persists one record per peak, replacing any previous record.
type Store interface {
	UpsertForecast(ctx context.Context, rec domain.ForecastRecord) error
}

// Publisher announces persisted records. Optional.
type Publisher interface {
	PublishForecasts(ctx context.Context, runID string, records []domain.ForecastRecord) error
}

// Options tune a Pipeline.
type Options struct {
	APIKey string
	// MaxConcurrency caps concurrent peaks; zero runs every peak at once.
	MaxConcurrency int
	// RunTimeout bounds a whole run; zero means no deadline beyond the caller's.
	RunTimeout time.Duration
	Model      domain.HazardModel
}

// Pipeline runs the fetch, adjust, score, analyze, persist sequence for every
// catalog entry.
type Pipeline struct {
	catalog   Catalog
	fetcher   Fetcher
	store     Store
	publisher Publisher
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. publisher may be nil.
func New(c Catalog, f Fetcher, s Store, pub Publisher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		catalog:   c,
		fetcher:   f,
		store:     s,
		publisher: pub,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// outcome is the settled result of one peak.
type outcome struct {
	peakID string
	stage  domain.Stage
	record domain.ForecastRecord
	err    error
}

// Run processes the whole catalog once. Per-peak failures land in the summary;
// the returned error is reserved for failures that stop the run before any peak
// is processed.
func (p *Pipeline) Run(ctx context.Context) (domain.RunSummary, error) {
	if p.opts.APIKey == "" {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.RunSummary{}, ErrMissingCredential
	}

	runID := uuid.NewString()
	start := domain.Now()
	logger := p.logger.With("run_id", runID)

	p.metrics.RunInProgress.Inc()
	defer p.metrics.RunInProgress.Dec()

	if p.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RunTimeout)
		defer cancel()
	}

	peaks, err := p.catalog.ListPeaks(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.RunSummary{}, fmt.Errorf("read catalog: %w", err)
	}
	p.metrics.CatalogSize.Set(float64(len(peaks)))
	logger.Info("run started", "peaks", len(peaks), "max_concurrency", p.opts.MaxConcurrency)

	outcomes := p.processAll(ctx, peaks)

	summary := domain.RunSummary{RunID: runID, Total: len(peaks)}
	persisted := make([]domain.ForecastRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err == nil {
			summary.Processed++
			persisted = append(persisted, o.record)
			p.metrics.LocationsTotal.WithLabelValues(string(domain.StagePersisted)).Inc()
			continue
		}
		summary.Errors = append(summary.Errors, domain.LocationError{
			Location: o.peakID,
			Stage:    o.stage,
			Message:  o.err.Error(),
		})
		p.metrics.LocationsTotal.WithLabelValues(string(domain.StageFailed)).Inc()
		p.metrics.FailuresTotal.WithLabelValues(string(o.stage)).Inc()
		logger.Error("peak failed", "peak_id", o.peakID, "stage", o.stage, "error", o.err)
	}

	p.publish(ctx, logger, runID, persisted)

	elapsed := domain.Now().Sub(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	if len(summary.Errors) == 0 {
		p.metrics.RunsTotal.WithLabelValues("success").Inc()
	} else {
		p.metrics.RunsTotal.WithLabelValues("partial").Inc()
	}
	logger.Info("run complete",
		"processed", summary.Processed,
		"total", summary.Total,
		"failed", len(summary.Errors),
		"duration", elapsed,
	)
	return summary, nil
}

// processAll settles every peak. Results keep catalog order.
func (p *Pipeline) processAll(ctx context.Context, peaks []domain.PeakLocation) []outcome {
	rp := pool.NewWithResults[outcome]()
	if p.opts.MaxConcurrency > 0 {
		rp = rp.WithMaxGoroutines(p.opts.MaxConcurrency)
	}
	for _, peak := range peaks {
		rp.Go(func() outcome {
			return p.processPeak(ctx, peak)
		})
	}
	return rp.Wait()
}

// processPeak never panics; a panic becomes the peak's failure at the stage
// that was executing.
func (p *Pipeline) processPeak(ctx context.Context, peak domain.PeakLocation) outcome {
	o := outcome{peakID: peak.ID, stage: domain.StagePending}
	if r := panics.Try(func() { p.runStages(ctx, peak, &o) }); r != nil {
		o.err = fmt.Errorf("panic: %v", r.Value)
	}
	return o
}

func (p *Pipeline) runStages(ctx context.Context, peak domain.PeakLocation, o *outcome) {
	o.stage = domain.StageFetching
	lat, lon, err := peak.Coordinates()
	if err != nil {
		o.err = err
		return
	}
	fc, err := p.fetcher.Fetch(ctx, lat, lon, p.opts.APIKey)
	if err != nil {
		o.err = err
		return
	}

	o.stage = domain.StageAdjusting
	adjusted := domain.AdjustForecast(fc.Hourly, peak, p.opts.Model)

	o.stage = domain.StageScoring
	risks := domain.ScoreHours(adjusted, p.opts.Model)

	o.stage = domain.StageAnalyzing
	rec := domain.AssembleRecord(peak, fc, adjusted, risks, p.opts.Model)
	if err := p.store.UpsertForecast(ctx, rec); err != nil {
		o.err = err
		return
	}

	o.stage = domain.StagePersisted
	o.record = rec
}

// publish is best effort: the records are already persisted.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, runID string, records []domain.ForecastRecord) {
	if p.publisher == nil || len(records) == 0 {
		return
	}
	if err := p.publisher.PublishForecasts(ctx, runID, records); err != nil {
		p.metrics.PublishErrors.Add(float64(len(records)))
		logger.Warn("publish forecast events failed", "count", len(records), "error", err)
		return
	}
	p.metrics.EventsPublished.Add(float64(len(records)))
}
