// Package holtwinters implements Holt-Winters triple exponential smoothing
// with multiplicative seasonality.
package holtwinters

import (
	"fmt"

	"github.com/sartorproj/goholtwinters/timeseries"
)

// Model represents a Holt-Winters model with fixed smoothing coefficients.
type Model struct {
	SeasonLength int
	Coefficients Coefficients
	Policy       NumericPolicy
	Strict       bool // reject coefficients outside [0, 1]

	fitted     bool
	nObs       int
	initial    State
	components *Components
}

// New creates a new model for the given season length and coefficients.
func New(seasonLength int, c Coefficients) *Model {
	return &Model{
		SeasonLength: seasonLength,
		Coefficients: c,
	}
}

// Fit runs initialization and the smoothing recursion over series.
// A failed fit leaves the model unfitted.
func (m *Model) Fit(series *timeseries.Series) error {
	m.fitted = false

	if series == nil {
		return fmt.Errorf("%w: nil series", ErrInsufficientData)
	}
	if err := m.Coefficients.Validate(m.Strict); err != nil {
		return err
	}

	values := series.Values
	init, err := Initialize(values, m.SeasonLength)
	if err != nil {
		return err
	}

	comps, err := Recurse(values, init, m.Coefficients, m.SeasonLength, m.Policy)
	if err != nil {
		return err
	}

	m.nObs = len(values)
	m.initial = init
	m.components = comps
	m.fitted = true
	return nil
}

// Predict generates forecasts for the specified number of periods ahead.
// Zero periods yields an empty slice.
func (m *Model) Predict(periods int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	c := m.components
	return Forecast(c.Levels, c.Trends, c.Seasonal, m.nObs, m.SeasonLength, periods)
}

// Fitted reports whether Fit completed successfully.
func (m *Model) Fitted() bool {
	return m.fitted
}

// Initial returns a copy of the seed state computed from the first two cycles.
func (m *Model) Initial() State {
	if !m.fitted {
		return State{}
	}
	return m.initial.Copy()
}

// Levels returns the level history (length n+1).
func (m *Model) Levels() []float64 {
	if !m.fitted {
		return nil
	}
	return cloneFloats(m.components.Levels)
}

// Trends returns the trend history (length n+1).
func (m *Model) Trends() []float64 {
	if !m.fitted {
		return nil
	}
	return cloneFloats(m.components.Trends)
}

// Seasonal returns the final seasonal factors (length SeasonLength).
func (m *Model) Seasonal() []float64 {
	if !m.fitted {
		return nil
	}
	return cloneFloats(m.components.Seasonal)
}

// Summary describes a fitted model.
type Summary struct {
	SeasonLength int
	Coefficients Coefficients
	Policy       NumericPolicy
	NObs         int
	Initial      State
	FinalLevel   float64
	FinalTrend   float64
	Seasonal     []float64
}

// Summary returns a summary of the fitted model.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}
	c := m.components
	return &Summary{
		SeasonLength: m.SeasonLength,
		Coefficients: m.Coefficients,
		Policy:       m.Policy,
		NObs:         m.nObs,
		Initial:      m.initial.Copy(),
		FinalLevel:   c.Levels[len(c.Levels)-1],
		FinalTrend:   c.Trends[len(c.Trends)-1],
		Seasonal:     cloneFloats(c.Seasonal),
	}
}

// Result holds the four output sequences of a run.
type Result struct {
	Levels    []float64 `json:"levels" yaml:"levels"`
	Trends    []float64 `json:"trends" yaml:"trends"`
	Seasonal  []float64 `json:"seasonalities" yaml:"seasonalities"`
	Forecasts []float64 `json:"forecasts" yaml:"forecasts"`
}

// Run initializes, smooths and forecasts values in one call using the
// FailFast policy.
func Run(values []float64, seasonLength, forecastPeriods int, c Coefficients) (*Result, error) {
	return RunWithOptions(values, seasonLength, forecastPeriods, c, Options{})
}

// RunWithOptions is Run with an explicit numeric policy and validation mode.
func RunWithOptions(values []float64, seasonLength, forecastPeriods int, c Coefficients, opts Options) (*Result, error) {
	if err := checkPeriods(forecastPeriods); err != nil {
		return nil, err
	}

	model := New(seasonLength, c)
	model.Policy = opts.Policy
	model.Strict = opts.Strict

	if err := model.Fit(&timeseries.Series{Values: values}); err != nil {
		return nil, err
	}

	forecasts, err := model.Predict(forecastPeriods)
	if err != nil {
		return nil, err
	}

	comps := model.components
	return &Result{
		Levels:    comps.Levels,
		Trends:    comps.Trends,
		Seasonal:  comps.Seasonal,
		Forecasts: forecasts,
	}, nil
}

func cloneFloats(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
