// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series represents a time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new time series from values.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Now()
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Hour)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	return Mean(s.Values)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Cycle returns a copy of the i-th full seasonal cycle of length m,
// i.e. values [i*m, (i+1)*m). It returns nil when the cycle is not
// completely covered by the series.
func (s *Series) Cycle(i, m int) []float64 {
	if i < 0 || m < 1 {
		return nil
	}
	start := i * m
	end := start + m
	if end > len(s.Values) {
		return nil
	}
	out := make([]float64, m)
	copy(out, s.Values[start:end])
	return out
}

// Cycles returns the number of complete cycles of length m in the series.
func (s *Series) Cycles(m int) int {
	if m < 1 {
		return 0
	}
	return len(s.Values) / m
}

// Validate reports whether the series is usable as model input:
// non-empty and free of NaN or infinite values.
func (s *Series) Validate() error {
	if len(s.Values) == 0 {
		return errors.New("series is empty")
	}
	if len(s.Timestamps) != 0 && len(s.Timestamps) != len(s.Values) {
		return fmt.Errorf("series has %d timestamps for %d values", len(s.Timestamps), len(s.Values))
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("series value at index %d is not finite: %v", i, v)
		}
	}
	return nil
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Scale returns a copy of the series with every value multiplied by k.
func (s *Series) Scale(k float64) *Series {
	out := s.Copy()
	floats.Scale(k, out.Values)
	return out
}
