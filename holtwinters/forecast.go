package holtwinters

import "fmt"

// MaxForecastPeriods bounds the horizon of a single forecast so that an
// oversized request fails with ErrInvalidParameter instead of exhausting
// memory.
const MaxForecastPeriods = 1 << 20

// Forecast extrapolates periods future values from the final state.
//
// Forecast k (1-based) is (lastLevel + k*lastTrend) * seasonal[(n+k-1) mod m],
// so the seasonal cycle continues right after the last observed phase.
// None of the inputs are modified.
func Forecast(levels, trends, seasonal []float64, n, m, periods int) ([]float64, error) {
	if err := checkPeriods(periods); err != nil {
		return nil, err
	}
	if m < 1 || len(seasonal) != m {
		return nil, fmt.Errorf("%w: %d seasonal factors for season length %d",
			ErrDegenerateSeasonLength, len(seasonal), m)
	}
	if len(levels) == 0 || len(trends) == 0 {
		return nil, fmt.Errorf("%w: empty level or trend history", ErrInsufficientData)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: observation count must be non-negative, got %d", ErrInvalidParameter, n)
	}

	level := levels[len(levels)-1]
	trend := trends[len(trends)-1]

	forecasts := make([]float64, periods)
	for k := 1; k <= periods; k++ {
		phase := (n + k - 1) % m
		forecasts[k-1] = (level + float64(k)*trend) * seasonal[phase]
	}
	return forecasts, nil
}

func checkPeriods(periods int) error {
	if periods < 0 {
		return fmt.Errorf("%w: forecast periods must be non-negative, got %d", ErrInvalidParameter, periods)
	}
	if periods > MaxForecastPeriods {
		return fmt.Errorf("%w: %d forecast periods exceed the limit of %d", ErrInvalidParameter, periods, MaxForecastPeriods)
	}
	return nil
}
