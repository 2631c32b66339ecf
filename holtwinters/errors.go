package holtwinters

import (
	"errors"
	"fmt"
)

// Sentinel errors for model input and state.
var (
	ErrInsufficientData       = errors.New("insufficient data: need at least two full seasonal cycles")
	ErrDegenerateSeasonLength = errors.New("season length must be at least 1")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrNumericDegeneracy      = errors.New("numeric degeneracy")
	ErrNotFitted              = errors.New("model must be fitted before prediction")
)

// Component names used in NumericError.
const (
	ComponentLevel    = "level"
	ComponentTrend    = "trend"
	ComponentSeasonal = "seasonal"
)

// NumericError describes where the recursion hit a zero divisor or produced
// a non-finite value. Step is the 0-based index into the series, or -1 when
// the failure happened during initialization.
type NumericError struct {
	Step      int
	Phase     int
	Component string
	Value     float64
}

func (e *NumericError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("numeric degeneracy during initialization: %s is %v at phase %d", e.Component, e.Value, e.Phase)
	}
	return fmt.Sprintf("numeric degeneracy at step %d (phase %d): %s is %v", e.Step, e.Phase, e.Component, e.Value)
}

// Unwrap lets errors.Is match ErrNumericDegeneracy.
func (e *NumericError) Unwrap() error {
	return ErrNumericDegeneracy
}
