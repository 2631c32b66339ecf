// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type for representing regularly sampled
// observations, along with the reductions and loaders the smoothing models
// build on.
//
// # Creating a Series
//
// Create a time series from a slice:
//
//	values := []float64{120, 135, 150, 170, 130, 145, 160, 180}
//	series := timeseries.New(values)
//
// # Seasonal Cycles
//
// A seasonal series of period m is read one cycle at a time:
//
//	first := series.Cycle(0, 4)  // values [0, 4)
//	second := series.Cycle(1, 4) // values [4, 8)
//	n := series.Cycles(4)        // number of complete cycles
//
// # Statistics
//
// Reductions are computed with gonum:
//
//	mean := series.Mean()
//	min := series.Min()
//	max := series.Max()
//
// # Loading from CSV
//
// Load time series data from CSV files:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.ValueColumn = "Beer"
//	series, err := timeseries.LoadCSV("aus_production.csv", opts)
//
// Rows with empty or NA values are rejected with ErrMissingValue rather than
// skipped, since dropping a row would shift every later observation into the
// wrong seasonal phase.
package timeseries
