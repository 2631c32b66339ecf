package holtwinters

import "fmt"

// Components is the decomposition produced by the recursion.
type Components struct {
	Levels   []float64 // len n+1, Levels[0] is the seed
	Trends   []float64 // len n+1, Trends[0] is the seed
	Seasonal []float64 // len m, final factor per phase
}

// Recurse replays values one observation at a time, starting from init.
//
// At step t the phase is t mod m; the level, then the trend, then the
// seasonal factor of that phase are updated, and the new level and trend
// are appended. init is not modified.
func Recurse(values []float64, init State, c Coefficients, m int, policy NumericPolicy) (*Components, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrDegenerateSeasonLength, m)
	}
	if len(init.Seasonal) != m {
		return nil, fmt.Errorf("%w: seed has %d seasonal factors for season length %d",
			ErrDegenerateSeasonLength, len(init.Seasonal), m)
	}
	if policy == FailFast {
		if err := init.check(); err != nil {
			return nil, err
		}
	}

	n := len(values)
	levels := make([]float64, 1, n+1)
	trends := make([]float64, 1, n+1)
	levels[0] = init.Level
	trends[0] = init.Trend

	seasonal := make([]float64, m)
	copy(seasonal, init.Seasonal)

	a1, a2, a3 := c.Level, c.Trend, c.Seasonal
	for t, x := range values {
		phase := t % m
		prevLevel := levels[len(levels)-1]
		prevTrend := trends[len(trends)-1]

		if policy == FailFast && seasonal[phase] == 0 {
			return nil, &NumericError{Step: t, Phase: phase, Component: ComponentSeasonal, Value: seasonal[phase]}
		}
		level := a1*(x/seasonal[phase]) + (1-a1)*(prevLevel+prevTrend)

		if policy == FailFast && (level == 0 || !finite(level)) {
			return nil, &NumericError{Step: t, Phase: phase, Component: ComponentLevel, Value: level}
		}
		trend := a2*(level-prevLevel) + (1-a2)*prevTrend
		seasonal[phase] = a3*(x/level) + (1-a3)*seasonal[phase]

		if policy == FailFast {
			if !finite(trend) {
				return nil, &NumericError{Step: t, Phase: phase, Component: ComponentTrend, Value: trend}
			}
			if !finite(seasonal[phase]) {
				return nil, &NumericError{Step: t, Phase: phase, Component: ComponentSeasonal, Value: seasonal[phase]}
			}
		}

		levels = append(levels, level)
		trends = append(trends, trend)
	}

	return &Components{
		Levels:   levels,
		Trends:   trends,
		Seasonal: seasonal,
	}, nil
}
