// Package stats provides frequentist significance testing for experiment results.
//
// # Overview
//
// The stats package implements a two-proportion z-test over aggregated
// conversion counts, the standard readout for an A/B experiment. It supports:
//
//   - Conversion rate comparison between a control and a treatment arm
//   - Two-tailed p-values from a closed-form normal CDF approximation
//   - Relative lift and confidence reporting for dashboards
//
// # Usage
//
//	var analyzer stats.Analyzer
//	result := analyzer.CalculateSignificance(
//	    stats.VariantMetrics{Visitors: 1000, Conversions: 100},
//	    stats.VariantMetrics{Visitors: 1000, Conversions: 150},
//	)
//	if result.IsSignificant {
//	    fmt.Printf("lift %.1f%% at %.1f%% confidence\n", result.RelativeLift, result.Confidence)
//	}
//
// # Accuracy
//
// The normal CDF uses the Abramowitz-Stegun polynomial approximation with an
// absolute error below 7.5e-8, orders of magnitude tighter than the 0.05
// significance threshold it feeds.
//
// # Thread Safety
//
// Analyzer holds no mutable state. All functions are pure and safe for
// concurrent use.
package stats
