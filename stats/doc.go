// Package stats provides diagnostics that help choose the season length of
// a Holt-Winters model.
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 24)
//
//	// ACF with confidence bounds
//	result := stats.ACFWithConfidence(series, 24)
//	significant := stats.SignificantLags(result.Values, result.ConfBounds)
//
// # Season Length
//
// DetectSeasonLength looks for the strongest autocorrelation peak of the
// differenced series:
//
//	m, r := stats.DetectSeasonLength(series, 24)
//	if m == 0 {
//	    // no significant seasonality
//	}
//
// Inspect bundles the suggestion with range checks. Multiplicative
// seasonality needs strictly positive data:
//
//	d := stats.Inspect(series, 24)
//	if !d.StrictlyPositive {
//	    // expect numeric degeneracy
//	}
package stats
