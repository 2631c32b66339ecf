package holtwinters

import (
	"fmt"
	"math"

	"github.com/sartorproj/goholtwinters/timeseries"
)

// State is the starting point of the recursion.
type State struct {
	Level    float64
	Trend    float64
	Seasonal []float64 // one multiplicative factor per phase
}

// Copy returns a deep copy of the state.
func (s State) Copy() State {
	seasonal := make([]float64, len(s.Seasonal))
	copy(seasonal, s.Seasonal)
	return State{Level: s.Level, Trend: s.Trend, Seasonal: seasonal}
}

// Initialize derives the starting level, trend and seasonal indices from the
// first two seasonal cycles of values.
//
// The level is the mean of the first cycle, the trend is the per-period
// change between the first and second cycle means, and each seasonal index
// is the first-cycle observation divided by the level. A zero first-cycle
// mean is not rejected here; it yields non-finite indices that Recurse
// reports under FailFast.
func Initialize(values []float64, m int) (State, error) {
	if m < 1 {
		return State{}, fmt.Errorf("%w: got %d", ErrDegenerateSeasonLength, m)
	}
	if len(values) < 2*m {
		return State{}, fmt.Errorf("%w: %d observations for season length %d", ErrInsufficientData, len(values), m)
	}

	first := timeseries.Mean(values[:m])
	second := timeseries.Mean(values[m : 2*m])

	seasonal := make([]float64, m)
	for i := 0; i < m; i++ {
		seasonal[i] = values[i] / first
	}

	return State{
		Level:    first,
		Trend:    (second - first) / float64(m),
		Seasonal: seasonal,
	}, nil
}

// check reports the first degenerate value in the seed state.
func (s State) check() error {
	if s.Level == 0 || !finite(s.Level) {
		return &NumericError{Step: -1, Component: ComponentLevel, Value: s.Level}
	}
	if !finite(s.Trend) {
		return &NumericError{Step: -1, Component: ComponentTrend, Value: s.Trend}
	}
	for i, v := range s.Seasonal {
		if v == 0 || !finite(v) {
			return &NumericError{Step: -1, Phase: i, Component: ComponentSeasonal, Value: v}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
