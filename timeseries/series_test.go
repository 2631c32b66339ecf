package timeseries

import (
	"math"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	if len(s.Timestamps) != 5 {
		t.Errorf("Expected 5 timestamps, got %d", len(s.Timestamps))
	}
}

func TestNewWithTimestamps(t *testing.T) {
	ts := []time.Time{time.Now(), time.Now()}
	if _, err := NewWithTimestamps(ts, []float64{1}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
	s, err := NewWithTimestamps(ts, []float64{1, 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Expected length 2, got %d", s.Len())
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"first cycle", []float64{120, 135, 150, 170}, 143.75},
		{"empty", []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			result := s.Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	s := New([]float64{5, 2, 8, 1, 9, 3})

	if s.Min() != 1 {
		t.Errorf("Expected min 1, got %f", s.Min())
	}
	if s.Max() != 9 {
		t.Errorf("Expected max 9, got %f", s.Max())
	}

	empty := New(nil)
	if !math.IsNaN(empty.Min()) || !math.IsNaN(empty.Max()) {
		t.Error("Expected NaN min/max for empty series")
	}
}

func TestCycle(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	second := s.Cycle(1, 4)
	expected := []float64{5, 6, 7, 8}
	if len(second) != len(expected) {
		t.Fatalf("Expected cycle length %d, got %d", len(expected), len(second))
	}
	for i, v := range expected {
		if second[i] != v {
			t.Errorf("Expected %f at index %d, got %f", v, i, second[i])
		}
	}

	// Mutating the cycle must not touch the series.
	second[0] = 100
	if s.Values[4] != 5 {
		t.Error("Cycle shares memory with the series")
	}

	if s.Cycle(2, 4) != nil {
		t.Error("Expected nil for an incomplete cycle")
	}
	if s.Cycle(0, 0) != nil {
		t.Error("Expected nil for zero season length")
	}
	if got := s.Cycles(4); got != 2 {
		t.Errorf("Expected 2 complete cycles, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{"ok", []float64{1, 2, 3}, false},
		{"empty", []float64{}, true},
		{"nan", []float64{1, math.NaN()}, true},
		{"inf", []float64{math.Inf(1), 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.values).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	sliced := s.Slice(1, 4)

	expected := []float64{2, 3, 4}
	if len(sliced.Values) != len(expected) {
		t.Errorf("Expected length %d, got %d", len(expected), len(sliced.Values))
	}

	for i, v := range sliced.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}

	if s.Slice(4, 2).Len() != 0 {
		t.Error("Expected empty slice for inverted bounds")
	}
}

func TestCopy(t *testing.T) {
	s := New([]float64{1, 2, 3})
	copied := s.Copy()

	s.Values[0] = 100

	if copied.Values[0] != 1 {
		t.Errorf("Copy was modified when original changed")
	}
}

func TestScale(t *testing.T) {
	s := New([]float64{1, 2, 3})
	scaled := s.Scale(10)

	expected := []float64{10, 20, 30}
	for i, v := range expected {
		if scaled.Values[i] != v {
			t.Errorf("Expected %f at index %d, got %f", v, i, scaled.Values[i])
		}
	}
	if s.Values[0] != 1 {
		t.Error("Scale modified the original series")
	}
}
