package holtwinters

import (
	"errors"
	"math"
	"testing"
)

func TestInitializeQuarterlySeeds(t *testing.T) {
	state, err := Initialize(quarterly, 4)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if math.Abs(state.Level-143.75) > 1e-6 {
		t.Errorf("Expected level 143.75, got %f", state.Level)
	}
	if math.Abs(state.Trend-2.5) > 1e-6 {
		t.Errorf("Expected trend 2.5, got %f", state.Trend)
	}

	want := []float64{120 / 143.75, 135 / 143.75, 150 / 143.75, 170 / 143.75}
	assertClose(t, "seasonal", state.Seasonal, want, 1e-6)

	t.Logf("Seasonal seeds: %v", state.Seasonal)
}

func TestInitializeSeasonalMeanIsOne(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120, 130, 140}
	for _, m := range []int{1, 2, 3, 5, 7} {
		state, err := Initialize(values, m)
		if err != nil {
			t.Fatalf("m=%d: Initialize failed: %v", m, err)
		}
		sum := 0.0
		for _, s := range state.Seasonal {
			sum += s
		}
		if math.Abs(sum/float64(m)-1) > 1e-12 {
			t.Errorf("m=%d: expected seasonal mean 1, got %f", m, sum/float64(m))
		}
	}
}

func TestInitializeUsesOnlyFirstTwoCycles(t *testing.T) {
	a, err := Initialize(quarterly[:8], 4)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	b, err := Initialize(quarterly, 4)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if a.Level != b.Level || a.Trend != b.Trend {
		t.Errorf("Later cycles changed the seed: %+v vs %+v", a, b)
	}
}

func TestInitializeErrors(t *testing.T) {
	if _, err := Initialize(quarterly, 0); !errors.Is(err, ErrDegenerateSeasonLength) {
		t.Errorf("Expected ErrDegenerateSeasonLength, got %v", err)
	}
	if _, err := Initialize(quarterly[:7], 4); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
	if _, err := Initialize(quarterly[:8], 4); err != nil {
		t.Errorf("Exactly two cycles must be enough, got %v", err)
	}
}

func TestInitializeZeroMeanIsNotFinite(t *testing.T) {
	state, err := Initialize([]float64{1, -1, 2, 2}, 2)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !math.IsInf(state.Seasonal[0], 1) || !math.IsInf(state.Seasonal[1], -1) {
		t.Errorf("Expected infinite seeds for a zero-mean first cycle, got %v", state.Seasonal)
	}

	var numErr *NumericError
	if err := state.check(); !errors.As(err, &numErr) || numErr.Component != ComponentLevel {
		t.Errorf("Expected level NumericError, got %v", err)
	}
}

func TestStateCopy(t *testing.T) {
	state := State{Level: 1, Trend: 2, Seasonal: []float64{0.5, 1.5}}
	c := state.Copy()
	c.Seasonal[0] = 9
	if state.Seasonal[0] != 0.5 {
		t.Error("Copy shares the seasonal buffer")
	}
}
