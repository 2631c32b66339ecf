// Package goholtwinters provides Holt-Winters triple exponential smoothing
// with multiplicative seasonality.
//
// The model tracks three components over a seasonal series: a level, a
// trend and one seasonal factor per phase of the cycle. Coefficients are
// supplied by the caller; nothing is estimated.
//
// # Features
//
//   - Initialization from the first two seasonal cycles
//   - Level, trend and seasonal smoothing with cyclic seasonal indexing
//   - Forecasts of any horizon from the final state
//   - Fail-fast or propagating handling of numeric degeneracy
//   - CSV loading, season length diagnostics and report rendering
//   - A CLI and HTTP API with run history in SQLite
//
// # Quick Start
//
// One call runs the whole pipeline:
//
//	c := holtwinters.Coefficients{Level: 0.5, Trend: 0.3, Seasonal: 0.2}
//	result, err := holtwinters.Run(values, 4, 4, c)
//	// result.Levels, result.Trends, result.Seasonal, result.Forecasts
//
// Or fit a model and forecast from it:
//
//	series := timeseries.New(values)
//	model := holtwinters.New(12, c)
//	if err := model.Fit(series); err != nil {
//	    // errors.Is(err, holtwinters.ErrInsufficientData) ...
//	}
//	forecasts, _ := model.Predict(12)
//
// # Packages
//
//   - holtwinters: initializer, smoothing recursion, forecaster and Model
//   - timeseries: Series type and CSV input/output
//   - stats: autocorrelation and season length diagnostics
//
// The hwforecast command in cmd/hwforecast wraps these with configuration,
// logging, metrics and persistence.
package goholtwinters
