package stats

import (
	"math"

	"github.com/sartorproj/goholtwinters/timeseries"
	"gonum.org/v1/gonum/floats"
)

// ACF calculates the Autocorrelation Function for the given series.
// Returns ACF values for lags 0 to maxLag, or nil for a constant series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	return acf(series.Values, maxLag)
}

func acf(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-timeseries.Mean(values), centered)

	variance := floats.Dot(centered, centered)
	if variance == 0 {
		return nil
	}

	out := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		out[k] = floats.Dot(centered[k:], centered[:n-k]) / variance
	}
	return out
}

// ACFResult represents the result of ACF analysis.
type ACFResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // 95% confidence bounds (±1.96/sqrt(n))
}

// ACFWithConfidence calculates ACF with confidence bounds.
func ACFWithConfidence(series *timeseries.Series, maxLag int) *ACFResult {
	values := ACF(series, maxLag)
	if values == nil {
		return nil
	}

	lags := make([]int, len(values))
	for i := range lags {
		lags[i] = i
	}

	return &ACFResult{
		Lags:       lags,
		Values:     values,
		ConfBounds: confBound(series.Len()),
	}
}

// SignificantLags returns the lags where ACF values exceed confidence bounds.
func SignificantLags(values []float64, confBound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ { // Skip lag 0
		if math.Abs(values[i]) > confBound {
			significant = append(significant, i)
		}
	}
	return significant
}

func confBound(n int) float64 {
	return 1.96 / math.Sqrt(float64(n))
}
