package stats

import (
	"github.com/sartorproj/goholtwinters/timeseries"
)

// DetectSeasonLength suggests a season length in [2, maxPeriod] from the
// autocorrelation of the first differences of series. The differences
// remove the trend that would otherwise dominate every lag. It returns the
// lag of the strongest significant ACF peak and its autocorrelation, or 0
// when no lag qualifies.
func DetectSeasonLength(series *timeseries.Series, maxPeriod int) (int, float64) {
	diffs := difference(series.Values)
	if maxPeriod > len(diffs)/2 {
		maxPeriod = len(diffs) / 2
	}
	if maxPeriod < 2 {
		return 0, 0
	}

	// One extra lag so maxPeriod itself can be tested as a peak.
	values := acf(diffs, maxPeriod+1)
	if values == nil {
		return 0, 0
	}
	bound := confBound(len(diffs))

	best, bestACF := 0, bound
	for k := 2; k <= maxPeriod; k++ {
		peak := values[k] > values[k-1] && (k+1 >= len(values) || values[k] >= values[k+1])
		if peak && values[k] > bestACF {
			best, bestACF = k, values[k]
		}
	}
	if best == 0 {
		return 0, 0
	}
	return best, bestACF
}

func difference(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := range out {
		out[i] = values[i+1] - values[i]
	}
	return out
}

// Diagnostics summarizes how well a series suits a multiplicative
// Holt-Winters model.
type Diagnostics struct {
	NObs             int     `json:"n_obs" yaml:"n_obs"`
	Min              float64 `json:"min" yaml:"min"`
	Max              float64 `json:"max" yaml:"max"`
	Mean             float64 `json:"mean" yaml:"mean"`
	StrictlyPositive bool    `json:"strictly_positive" yaml:"strictly_positive"`
	SeasonLength     int     `json:"season_length" yaml:"season_length"` // suggested, 0 if none
	SeasonalACF      float64 `json:"seasonal_acf" yaml:"seasonal_acf"`
	Cycles           int     `json:"cycles" yaml:"cycles"` // full cycles at SeasonLength
}

// Inspect computes Diagnostics for series, searching season lengths up to
// maxPeriod.
func Inspect(series *timeseries.Series, maxPeriod int) *Diagnostics {
	d := &Diagnostics{
		NObs: series.Len(),
		Min:  series.Min(),
		Max:  series.Max(),
		Mean: series.Mean(),
	}
	// Multiplicative seasonality divides by level and seasonal factors.
	d.StrictlyPositive = d.NObs > 0 && d.Min > 0

	d.SeasonLength, d.SeasonalACF = DetectSeasonLength(series, maxPeriod)
	if d.SeasonLength > 0 {
		d.Cycles = series.Cycles(d.SeasonLength)
	}
	return d
}
