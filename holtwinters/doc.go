// Package holtwinters implements Holt-Winters triple exponential smoothing for
// seasonal, trending time series with multiplicative seasonality.
//
// A run has three strictly sequential phases:
//
//   - Initialize: level, trend and seasonal indices from the first two cycles
//   - Recurse: one update of level, trend and the current phase's seasonal
//     factor per observation
//   - Forecast: linear trend extrapolation from the final level, scaled by
//     the seasonal factor of the phase each future step lands on
//
// # Basic Usage
//
// Smooth quarterly data (m=4) and forecast the next year:
//
//	coeffs := holtwinters.Coefficients{Level: 0.5, Trend: 0.3, Seasonal: 0.2}
//	result, err := holtwinters.Run(values, 4, 4, coeffs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Forecasts)
//
// Or keep the fitted model around:
//
//	model := holtwinters.New(4, coeffs)
//	model.Strict = true
//	if err := model.Fit(series); err != nil {
//	    log.Fatal(err)
//	}
//	forecasts, _ := model.Predict(8)
//
// # Coefficients
//
// The coefficients are supplied, never estimated:
//   - Level (alpha1): weight of the deseasonalized observation against the
//     previous level plus trend
//   - Trend (alpha2): weight of the observed level change against the
//     previous trend
//   - Seasonal (alpha3): weight of observation/level against the previous
//     factor for the same phase
//
// With Level=1, Trend=0, Seasonal=0 the seasonal indices never move and each
// level is exactly the observation divided by its seed index.
//
// # Numeric Policy
//
// The recursion divides by the seasonal factor and by the freshly updated
// level. FailFast (the default) returns a *NumericError wrapping
// ErrNumericDegeneracy as soon as a divisor is zero or a value turns NaN or
// infinite. Propagate performs no checks and lets NaN or Inf flow into every
// later level, trend, seasonal factor and forecast.
//
// # Errors
//
// Inputs are checked before any smoothing:
//   - ErrDegenerateSeasonLength: season length below 1
//   - ErrInsufficientData: fewer than two full cycles
//   - ErrInvalidParameter: negative forecast periods, NaN coefficients, or
//     coefficients outside [0, 1] when Strict is set
package holtwinters
