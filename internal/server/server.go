// Package server exposes forecast runs over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sartorproj/goholtwinters/holtwinters"
	"github.com/sartorproj/goholtwinters/internal/config"
	"github.com/sartorproj/goholtwinters/internal/metrics"
	"github.com/sartorproj/goholtwinters/internal/report"
	"github.com/sartorproj/goholtwinters/internal/runner"
	"github.com/sartorproj/goholtwinters/internal/store"
	"go.uber.org/zap"
)

const (
	maxBodyBytes     = 1 << 20
	defaultListLimit = 20
)

// Deps are the collaborators of a Server. Repo and Gatherer may be nil.
type Deps struct {
	Runner    *runner.Runner
	Repo      store.Repository
	Recorder  *metrics.Recorder
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
	Precision int
}

// Server is the forecast HTTP server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	deps       Deps
	logger     *zap.Logger

	// Zero disables the corresponding limit.
	maxObservations    int
	maxForecastPeriods int
}

// New creates a Server with middleware and routes.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NewRecorder(nil)
	}
	if deps.Runner == nil {
		deps.Runner = runner.New(deps.Logger, deps.Repo, deps.Recorder)
	}

	s := &Server{
		mux:                http.NewServeMux(),
		deps:               deps,
		logger:             deps.Logger.Named("server"),
		maxObservations:    cfg.MaxObservations,
		maxForecastPeriods: cfg.MaxForecastPeriods,
	}
	s.registerRoutes()

	operational := []string{"/healthz", "/metrics"}
	handler := Chain(s.mux,
		RecoveryMiddleware(s.logger),
		RequestIDMiddleware,
		LoggingMiddleware(s.logger, deps.Recorder, operational),
		RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst, operational),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.deps.Gatherer != nil {
		s.mux.Handle("GET /metrics", metrics.Handler(s.deps.Gatherer))
	}

	s.mux.HandleFunc("POST /api/v1/forecasts", s.handleCreateForecast)
	s.mux.HandleFunc("GET /api/v1/forecasts", s.handleListForecasts)
	s.mux.HandleFunc("GET /api/v1/forecasts/{id}", s.handleGetForecast)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// forecastRequest is the body of POST /api/v1/forecasts.
type forecastRequest struct {
	Name            string                   `json:"name"`
	Values          []float64                `json:"values"`
	SeasonLength    int                      `json:"season_length"`
	ForecastPeriods int                      `json:"forecast_periods"`
	Coefficients    holtwinters.Coefficients `json:"coefficients"`
	NumericPolicy   string                   `json:"numeric_policy"`
	Strict          bool                     `json:"strict"`
}

func (s *Server) handleCreateForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return
	}

	policy, err := holtwinters.ParseNumericPolicy(req.NumericPolicy)
	if err != nil {
		Unprocessable(w, err.Error(), r.URL.Path)
		return
	}

	if err := s.checkLimits(&req); err != nil {
		s.writeRunError(w, r, err)
		return
	}

	run, err := s.deps.Runner.Run(r.Context(), runner.Job{
		Name:            req.Name,
		Values:          req.Values,
		SeasonLength:    req.SeasonLength,
		ForecastPeriods: req.ForecastPeriods,
		Coefficients:    req.Coefficients,
		Policy:          policy,
		Strict:          req.Strict,
	})
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	if run.ID != "" {
		w.Header().Set("Location", "/api/v1/forecasts/"+run.ID)
	}
	writeJSON(w, http.StatusCreated, report.FromRun(run, s.deps.Precision))
}

// checkLimits rejects requests whose size alone would make the run
// unreasonably expensive.
func (s *Server) checkLimits(req *forecastRequest) error {
	if s.maxObservations > 0 && len(req.Values) > s.maxObservations {
		return fmt.Errorf("%w: %d values exceed the limit of %d",
			holtwinters.ErrInvalidParameter, len(req.Values), s.maxObservations)
	}
	if s.maxForecastPeriods > 0 && req.ForecastPeriods > s.maxForecastPeriods {
		return fmt.Errorf("%w: %d forecast periods exceed the limit of %d",
			holtwinters.ErrInvalidParameter, req.ForecastPeriods, s.maxForecastPeriods)
	}
	return nil
}

func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	if s.deps.Repo == nil {
		Unavailable(w, "run history is disabled", r.URL.Path)
		return
	}

	run, err := s.deps.Repo.GetRun(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrRunNotFound) {
		NotFound(w, err.Error(), r.URL.Path)
		return
	}
	if err != nil {
		s.logger.Error("failed to load run", zap.String("id", r.PathValue("id")), zap.Error(err))
		InternalError(w, "failed to load run", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, report.FromRun(run, s.deps.Precision))
}

func (s *Server) handleListForecasts(w http.ResponseWriter, r *http.Request) {
	if s.deps.Repo == nil {
		Unavailable(w, "run history is disabled", r.URL.Path)
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			BadRequest(w, "limit must be a positive integer", r.URL.Path)
			return
		}
		limit = n
	}

	runs, err := s.deps.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", zap.Error(err))
		InternalError(w, "failed to list runs", r.URL.Path)
		return
	}

	reports := make([]*report.Report, len(runs))
	for i := range runs {
		reports[i] = report.FromRun(&runs[i], s.deps.Precision)
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": reports})
}

func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case runner.IsInputError(err):
		Unprocessable(w, err.Error(), r.URL.Path)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		Unavailable(w, "request cancelled", r.URL.Path)
	default:
		InternalError(w, "forecast failed", r.URL.Path)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
