// Package runner executes forecast jobs and records their outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sartorproj/goholtwinters/holtwinters"
	"github.com/sartorproj/goholtwinters/internal/metrics"
	"github.com/sartorproj/goholtwinters/internal/store"
	"github.com/sartorproj/goholtwinters/timeseries"
	"go.uber.org/zap"
)

// Job is one forecast request.
type Job struct {
	Name            string
	Values          []float64
	SeasonLength    int
	ForecastPeriods int
	Coefficients    holtwinters.Coefficients
	Policy          holtwinters.NumericPolicy
	Strict          bool
}

// Runner fits a model per job, records metrics and persists the result
// when a repository is configured.
type Runner struct {
	logger   *zap.Logger
	repo     store.Repository
	recorder *metrics.Recorder
}

// New creates a runner. repo and recorder may be nil.
func New(logger *zap.Logger, repo store.Repository, recorder *metrics.Recorder) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder(nil)
	}
	return &Runner{
		logger:   logger.Named("runner"),
		repo:     repo,
		recorder: recorder,
	}
}

// Run executes job. The returned run carries the stored ID when a
// repository is configured.
func (r *Runner) Run(ctx context.Context, job Job) (*store.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := metrics.NewTimer()
	r.recorder.RecordInput(len(job.Values), job.ForecastPeriods)

	result, err := r.forecast(job)
	if err != nil {
		r.fail(job, err, timer.Elapsed())
		return nil, err
	}

	run := &store.Run{
		CreatedAt:       time.Now().UTC(),
		Name:            job.Name,
		SeasonLength:    job.SeasonLength,
		ForecastPeriods: job.ForecastPeriods,
		Coefficients:    job.Coefficients,
		Policy:          job.Policy.String(),
		NObs:            len(job.Values),
		Result:          *result,
	}

	if r.repo != nil {
		if err := r.repo.SaveRun(ctx, run); err != nil {
			r.recorder.RecordRun(metrics.StatusError, timer.Elapsed())
			r.logger.Error("failed to persist run", zap.String("name", job.Name), zap.Error(err))
			return nil, fmt.Errorf("persist run: %w", err)
		}
	}

	elapsed := timer.Elapsed()
	r.recorder.RecordRun(metrics.StatusOK, elapsed)
	r.logger.Info("forecast completed",
		zap.String("id", run.ID),
		zap.String("name", job.Name),
		zap.Int("observations", len(job.Values)),
		zap.Int("season_length", job.SeasonLength),
		zap.Int("periods", job.ForecastPeriods),
		zap.Duration("duration", elapsed),
	)

	return run, nil
}

func (r *Runner) forecast(job Job) (*holtwinters.Result, error) {
	series := &timeseries.Series{Values: job.Values, Name: job.Name}
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: no observations", holtwinters.ErrInsufficientData)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", holtwinters.ErrInvalidParameter, err)
	}
	return holtwinters.RunWithOptions(series.Values, job.SeasonLength, job.ForecastPeriods, job.Coefficients,
		holtwinters.Options{Policy: job.Policy, Strict: job.Strict})
}

func (r *Runner) fail(job Job, err error, elapsed time.Duration) {
	r.recorder.RecordRun(metrics.StatusError, elapsed)

	fields := []zap.Field{
		zap.String("name", job.Name),
		zap.Int("observations", len(job.Values)),
		zap.Int("season_length", job.SeasonLength),
		zap.Error(err),
	}

	var numErr *holtwinters.NumericError
	if errors.As(err, &numErr) {
		r.recorder.RecordNumericError(numErr.Component)
		fields = append(fields,
			zap.Int("step", numErr.Step),
			zap.String("component", numErr.Component),
		)
	}

	r.logger.Warn("forecast failed", fields...)
}

// IsInputError reports whether err was caused by the job's input rather
// than by infrastructure.
func IsInputError(err error) bool {
	return errors.Is(err, holtwinters.ErrInsufficientData) ||
		errors.Is(err, holtwinters.ErrDegenerateSeasonLength) ||
		errors.Is(err, holtwinters.ErrInvalidParameter) ||
		errors.Is(err, holtwinters.ErrNumericDegeneracy)
}
