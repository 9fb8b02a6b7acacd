package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Runner executes one batch over the whole catalog.
type Runner interface {
	Run(ctx context.Context) (domain.RunSummary, error)
}

// ForecastReader returns the last persisted record for a peak.
type ForecastReader interface {
	GetForecast(ctx context.Context, peakID string) (domain.ForecastRecord, error)
}

var errNoSentinel = errors.New("httpadapter: no not-found sentinel")

// Server exposes the batch trigger, forecast lookup, health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	runner     Runner
	forecasts  ForecastReader
	notFound   error
	corsOrigin string
	logger     *slog.Logger
}

// Options wire the server's collaborators.
type Options struct {
	Addr       string
	Ready      sharedobs.ReadinessChecker
	Runner     Runner
	Forecasts  ForecastReader
	// NotFound is the reader's sentinel for unknown peaks; matches answer 404.
	NotFound   error
	CORSOrigin string
	// RunTimeout bounds the write side of POST /run, which stays open for a whole batch.
	RunTimeout time.Duration
}

// NewServer creates an HTTP server with /run, /forecasts/{peakID}, /healthz,
// /readyz, and /metrics routes.
func NewServer(opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	notFound := opts.NotFound
	if notFound == nil {
		notFound = errNoSentinel
	}
	writeTimeout := 10 * time.Second
	if opts.RunTimeout > 0 {
		writeTimeout = opts.RunTimeout + 10*time.Second
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		runner:     opts.Runner,
		forecasts:  opts.Forecasts,
		notFound:   notFound,
		corsOrigin: opts.CORSOrigin,
		logger:     logger,
	}

	mux.HandleFunc("OPTIONS /run", s.handlePreflight)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("GET /forecasts/{peakID}", s.handleForecast)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(opts.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", s.corsOrigin)
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	s.setCORS(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleRun answers 200 with the summary even when some peaks failed; only
// run-level failures produce 500.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w)
	summary, err := s.runner.Run(r.Context())
	if err != nil {
		s.logger.Error("run failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	peakID := r.PathValue("peakID")
	rec, err := s.forecasts.GetForecast(r.Context(), peakID)
	switch {
	case errors.Is(err, s.notFound):
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case err != nil:
		s.logger.Error("read forecast failed", "peak_id", peakID, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		sharedobs.WriteJSON(w, http.StatusOK, rec)
	}
}
