package stats

import (
	"math"
	"testing"

	"github.com/sartorproj/goholtwinters/timeseries"
)

// seasonalSeries builds a trending series with multiplicative seasonality.
func seasonalSeries(n int, base, slope float64, pattern []float64) *timeseries.Series {
	values := make([]float64, n)
	for t := range values {
		values[t] = (base + slope*float64(t)) * pattern[t%len(pattern)]
	}
	return timeseries.New(values)
}

var (
	quarterlyPattern = []float64{0.8, 0.95, 1.05, 1.2}
	monthlyPattern   = []float64{0.85, 0.8, 0.9, 0.95, 1.0, 1.1, 1.2, 1.25, 1.1, 1.0, 0.95, 0.9}
)

func TestACF(t *testing.T) {
	// Create a simple AR(1) process
	n := 100
	phi := 0.8
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + (float64(i%10)-5)/10
	}

	acf := ACF(timeseries.New(values), 10)
	if acf == nil {
		t.Fatal("ACF returned nil")
	}
	if len(acf) != 11 {
		t.Fatalf("Expected 11 lags, got %d", len(acf))
	}

	// ACF at lag 0 should be 1
	if math.Abs(acf[0]-1.0) > 1e-10 {
		t.Errorf("ACF at lag 0 should be 1, got %f", acf[0])
	}
	if acf[1] < 0.5 {
		t.Errorf("Expected strong lag-1 autocorrelation, got %f", acf[1])
	}
}

func TestACF_EdgeCases(t *testing.T) {
	if ACF(timeseries.New([]float64{3, 3, 3, 3}), 2) != nil {
		t.Error("Expected nil ACF for a constant series")
	}
	if ACF(timeseries.New(nil), 2) != nil {
		t.Error("Expected nil ACF for an empty series")
	}
	if got := ACF(timeseries.New([]float64{1, 2, 3}), 10); len(got) != 3 {
		t.Errorf("Expected maxLag clamped to n-1, got %d lags", len(got))
	}
}

func TestACFWithConfidence(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i) + math.Sin(float64(i)/10)
	}

	result := ACFWithConfidence(timeseries.New(values), 20)
	if result == nil {
		t.Fatal("ACFWithConfidence returned nil")
	}

	// Confidence bounds should be approximately 1.96/sqrt(n)
	expected := 1.96 / math.Sqrt(100)
	if math.Abs(result.ConfBounds-expected) > 0.01 {
		t.Errorf("Expected confidence bounds ~%f, got %f", expected, result.ConfBounds)
	}
	if len(result.Lags) != 21 || result.Lags[20] != 20 {
		t.Errorf("Unexpected lags: %v", result.Lags)
	}
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1.0, 0.5, 0.3, 0.1, 0.05, -0.2, -0.5}

	significant := SignificantLags(values, 0.15)

	expected := []int{1, 2, 5, 6}
	if len(significant) != len(expected) {
		t.Fatalf("Expected %d significant lags, got %d", len(expected), len(significant))
	}
	for i := range expected {
		if significant[i] != expected[i] {
			t.Errorf("Expected lag %d, got %d", expected[i], significant[i])
		}
	}
}

func TestDetectSeasonLength(t *testing.T) {
	tests := []struct {
		name      string
		series    *timeseries.Series
		maxPeriod int
		want      int
	}{
		{"quarterly", seasonalSeries(24, 100, 2, quarterlyPattern), 8, 4},
		{"monthly", seasonalSeries(120, 200, 1, monthlyPattern), 24, 12},
		{"linear trend", seasonalSeries(49, 1, 1, []float64{1}), 12, 0},
		{"too short", timeseries.New([]float64{120, 135, 150, 170, 130, 145, 160, 180, 140, 155, 170, 190}), 6, 0},
		{"tiny", timeseries.New([]float64{1, 2}), 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, r := DetectSeasonLength(tt.series, tt.maxPeriod)
			if got != tt.want {
				t.Errorf("Expected season length %d, got %d (acf %.3f)", tt.want, got, r)
			}
			t.Logf("%s: m=%d acf=%.3f", tt.name, got, r)
		})
	}
}

func TestInspect(t *testing.T) {
	d := Inspect(seasonalSeries(120, 200, 1, monthlyPattern), 24)

	if d.NObs != 120 {
		t.Errorf("Expected 120 observations, got %d", d.NObs)
	}
	if !d.StrictlyPositive {
		t.Error("Expected strictly positive series")
	}
	if d.SeasonLength != 12 || d.Cycles != 10 {
		t.Errorf("Expected season 12 with 10 cycles, got %d and %d", d.SeasonLength, d.Cycles)
	}

	withZero := Inspect(timeseries.New([]float64{1, 0, 2, 3}), 2)
	if withZero.StrictlyPositive {
		t.Error("Series containing zero must not be strictly positive")
	}
	if withZero.Cycles != 0 {
		t.Errorf("Expected no cycles without a season length, got %d", withZero.Cycles)
	}
}
