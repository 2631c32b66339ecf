package holtwinters

import (
	"fmt"
	"math"
	"strings"
)

// Coefficients holds the three smoothing weights (alpha1, alpha2, alpha3).
type Coefficients struct {
	Level    float64 `json:"alpha1" yaml:"alpha1"` // weight of the new observation in the level
	Trend    float64 `json:"alpha2" yaml:"alpha2"` // weight of the observed level change in the trend
	Seasonal float64 `json:"alpha3" yaml:"alpha3"` // weight of the new observation in the seasonal factor
}

// Validate checks the coefficients. NaN is always rejected; values outside
// [0, 1] are rejected only when strict is set.
func (c Coefficients) Validate(strict bool) error {
	named := []struct {
		name  string
		value float64
	}{
		{"alpha1", c.Level},
		{"alpha2", c.Trend},
		{"alpha3", c.Seasonal},
	}
	for _, p := range named {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParameter, p.name, p.value)
		}
		if strict && (p.value < 0 || p.value > 1) {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalidParameter, p.name, p.value)
		}
	}
	return nil
}

// NumericPolicy selects how the recursion reacts to a zero divisor or a
// non-finite intermediate value.
type NumericPolicy int

const (
	// FailFast aborts the run with a *NumericError.
	FailFast NumericPolicy = iota
	// Propagate lets NaN and Inf flow through every later step unchanged.
	Propagate
)

func (p NumericPolicy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case Propagate:
		return "propagate"
	default:
		return fmt.Sprintf("NumericPolicy(%d)", int(p))
	}
}

// ParseNumericPolicy parses "fail_fast" or "propagate". The empty string
// selects FailFast.
func ParseNumericPolicy(s string) (NumericPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail_fast", "failfast", "fail-fast":
		return FailFast, nil
	case "propagate":
		return Propagate, nil
	default:
		return FailFast, fmt.Errorf("%w: unknown numeric policy %q", ErrInvalidParameter, s)
	}
}

// Options tune a run beyond the numeric inputs.
type Options struct {
	Policy NumericPolicy
	Strict bool // reject coefficients outside [0, 1]
}
