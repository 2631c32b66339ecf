// Package main demonstrates Holt-Winters multiplicative forecasting on the
// quarterly reference series and, when the data directory is present, on
// seasonal real-world datasets with a holdout split.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sartorproj/goholtwinters/holtwinters"
	"github.com/sartorproj/goholtwinters/internal/report"
	"github.com/sartorproj/goholtwinters/timeseries"
)

// Dataset defines a seasonal time series to evaluate
type Dataset struct {
	Name        string  // Display name
	Description string  // Brief description
	File        string  // CSV filename
	Column      string  // Value column name
	FilterCol   string  // Column to filter on (optional)
	FilterVal   string  // Value to filter for (optional)
	Period      int     // Season length
	Scale       float64 // Scale factor for values (e.g., 1e-3 for thousands)
	SkipFirst   int     // Number of initial observations to skip
}

// ForecastResult holds the holdout forecasts of one dataset
type ForecastResult struct {
	Name      string    `json:"name"`
	NObs      int       `json:"n_obs"`
	Period    int       `json:"period"`
	Test      []float64 `json:"test"`
	Forecasts []float64 `json:"forecasts"`
}

var coefficients = holtwinters.Coefficients{Level: 0.5, Trend: 0.3, Seasonal: 0.2}

func main() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("Holt-Winters Demonstration - multiplicative seasonality")
	fmt.Println(strings.Repeat("=", 80))

	if err := reference(); err != nil {
		fmt.Fprintf(os.Stderr, "reference run failed: %v\n", err)
		os.Exit(1)
	}

	dataDir, ok := findDataDir()
	if !ok {
		fmt.Println("\nNo data directory found, skipping dataset evaluation.")
		return
	}
	fmt.Printf("\nData directory: %s\n", dataDir)

	datasets := []Dataset{
		{Name: "Australian Beer", File: "aus_production.csv", Column: "Beer", Period: 4, SkipFirst: 80, Description: "Quarterly beer production"},
		{Name: "Australian Gas", File: "aus_production.csv", Column: "Gas", Period: 4, SkipFirst: 80, Description: "Quarterly gas production"},
		{Name: "US House Sales", File: "hsales.csv", Column: "y", Period: 12, Description: "Monthly new house sales"},
		{Name: "US Employment", File: "us_employment.csv", FilterCol: "unique_id", FilterVal: "Total Private", Column: "y", Period: 12, Scale: 1e-3, Description: "Monthly private employment (millions)"},
	}

	var results []ForecastResult
	for i, ds := range datasets {
		fmt.Printf("\n%s\n[%d/%d] %s - %s\n%s\n", strings.Repeat("=", 80), i+1, len(datasets), ds.Name, ds.Description, strings.Repeat("=", 80))

		result, err := evaluate(dataDir, ds)
		if err != nil {
			fmt.Printf("   Error: %v\n", err)
			continue
		}
		for i := range result.Test {
			fmt.Printf("   t+%-3d actual %10.2f  forecast %10.2f\n", i+1, result.Test[i], result.Forecasts[i])
		}
		results = append(results, *result)
	}

	if data, err := json.MarshalIndent(results, "", "  "); err == nil {
		if err := os.WriteFile("forecast_results.json", data, 0644); err == nil {
			fmt.Printf("\nExported %d datasets to forecast_results.json\n", len(results))
		}
	}
}

// reference runs the quarterly example and prints its report.
func reference() error {
	values := []float64{120, 135, 150, 170, 130, 145, 160, 180, 140, 155, 170, 190}

	result, err := holtwinters.Run(values, 4, 4, coefficients)
	if err != nil {
		return err
	}

	fmt.Println()
	r := report.New(result, report.Meta{
		Name:         "quarterly reference",
		CreatedAt:    time.Now().UTC(),
		SeasonLength: 4,
		Coefficients: coefficients,
		NObs:         len(values),
	}, 2)
	return report.Render(os.Stdout, r, report.FormatText)
}

// findDataDir locates the data directory
func findDataDir() (string, bool) {
	for _, p := range []string{"data", "./data", "../data"} {
		if _, err := os.Stat(filepath.Join(p, "aus_production.csv")); err == nil {
			return p, true
		}
	}
	return "", false
}

// evaluate fits on all but the last two seasons and forecasts them.
func evaluate(dataDir string, ds Dataset) (*ForecastResult, error) {
	series, err := loadData(dataDir, ds)
	if err != nil {
		return nil, err
	}

	n := series.Len()
	testSize := 2 * ds.Period
	if n-testSize < 2*ds.Period {
		return nil, fmt.Errorf("%d observations are too few for a %d-period holdout", n, testSize)
	}
	train := series.Slice(0, n-testSize)
	test := series.Slice(n-testSize, n)
	fmt.Printf("   Loaded %d observations (%.2f to %.2f), train %d, test %d\n",
		n, series.Min(), series.Max(), train.Len(), test.Len())

	model := holtwinters.New(ds.Period, coefficients)
	if err := model.Fit(train); err != nil {
		return nil, err
	}
	forecasts, err := model.Predict(testSize)
	if err != nil {
		return nil, err
	}

	summary := model.Summary()
	fmt.Printf("   Final level %.3f, trend %.4f, seasonal %v\n",
		summary.FinalLevel, summary.FinalTrend, roundAll(summary.Seasonal, 3))

	return &ForecastResult{
		Name:      ds.Name,
		NObs:      n,
		Period:    ds.Period,
		Test:      test.Values,
		Forecasts: forecasts,
	}, nil
}

// loadData loads a dataset based on configuration
func loadData(dataDir string, ds Dataset) (*timeseries.Series, error) {
	opts := timeseries.DefaultCSVOptions()
	opts.ValueColumn = ds.Column
	opts.IDColumn = ds.FilterCol
	opts.IDFilter = ds.FilterVal

	series, err := timeseries.LoadCSV(filepath.Join(dataDir, ds.File), opts)
	if err != nil {
		return nil, err
	}
	if ds.SkipFirst > 0 && ds.SkipFirst < series.Len() {
		series = series.Slice(ds.SkipFirst, series.Len())
	}
	if ds.Scale != 0 {
		series = series.Scale(ds.Scale)
	}
	return series, nil
}

func roundAll(values []float64, places int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = report.Round(v, places)
	}
	return out
}
