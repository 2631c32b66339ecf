// Package store persists completed forecast runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/sartorproj/goholtwinters/holtwinters"
)

// ErrRunNotFound is returned when no run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// Repository defines the interface for run persistence.
type Repository interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// Run is one completed forecast with its inputs and the four output
// sequences.
type Run struct {
	ID              string                   `json:"id"`
	CreatedAt       time.Time                `json:"created_at"`
	Name            string                   `json:"name,omitempty"`
	SeasonLength    int                      `json:"season_length"`
	ForecastPeriods int                      `json:"forecast_periods"`
	Coefficients    holtwinters.Coefficients `json:"coefficients"`
	Policy          string                   `json:"numeric_policy"`
	NObs            int                      `json:"n_obs"`
	Result          holtwinters.Result       `json:"result"`
}
