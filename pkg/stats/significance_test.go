package stats

import (
	"math"
	"testing"
)

// ============================================================================
// ConversionRate Tests
// ============================================================================

func TestVariantMetrics_ConversionRate(t *testing.T) {
	tests := []struct {
		name    string
		metrics VariantMetrics
		want    float64
	}{
		{"no traffic", VariantMetrics{}, 0},
		{"quarter", VariantMetrics{Visitors: 200, Conversions: 50}, 0.25},
		{"full", VariantMetrics{Visitors: 10, Conversions: 10}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metrics.ConversionRate(); got != tt.want {
				t.Errorf("ConversionRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// CalculateSignificance Tests
// ============================================================================

func TestAnalyzer_ClearWinner(t *testing.T) {
	var analyzer Analyzer

	control := VariantMetrics{Visitors: 1000, Conversions: 100}
	treatment := VariantMetrics{Visitors: 1000, Conversions: 150}

	result := analyzer.CalculateSignificance(control, treatment)

	if result.ControlRate != 0.1 {
		t.Errorf("ControlRate = %v, want 0.1", result.ControlRate)
	}
	if result.TreatmentRate != 0.15 {
		t.Errorf("TreatmentRate = %v, want 0.15", result.TreatmentRate)
	}
	if math.Abs(result.ZScore-3.3806) > 0.01 {
		t.Errorf("ZScore = %v, want ~3.38", result.ZScore)
	}
	if result.PValue >= 0.001 {
		t.Errorf("PValue = %v, want < 0.001", result.PValue)
	}
	if !result.IsSignificant {
		t.Error("expected significant result")
	}
	if math.Abs(result.RelativeLift-50) > 1e-9 {
		t.Errorf("RelativeLift = %v, want 50", result.RelativeLift)
	}
	if result.Confidence <= 99.9 {
		t.Errorf("Confidence = %v, want > 99.9", result.Confidence)
	}
}

func TestAnalyzer_NoDifference(t *testing.T) {
	var analyzer Analyzer

	arm := VariantMetrics{Visitors: 1000, Conversions: 100}
	result := analyzer.CalculateSignificance(arm, arm)

	if result.ZScore != 0 {
		t.Errorf("ZScore = %v, want 0", result.ZScore)
	}
	if result.PValue != 1 {
		t.Errorf("PValue = %v, want 1", result.PValue)
	}
	if result.IsSignificant {
		t.Error("identical arms must not be significant")
	}
	if result.RelativeLift != 0 {
		t.Errorf("RelativeLift = %v, want 0", result.RelativeLift)
	}
}

func TestAnalyzer_ZeroTraffic(t *testing.T) {
	var analyzer Analyzer

	result := analyzer.CalculateSignificance(VariantMetrics{}, VariantMetrics{})

	if result.ZScore != 0 {
		t.Errorf("ZScore = %v, want 0", result.ZScore)
	}
	if result.PValue != 1 {
		t.Errorf("PValue = %v, want 1", result.PValue)
	}
	if result.IsSignificant {
		t.Error("zero traffic must not be significant")
	}
	if result.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
}

func TestAnalyzer_DegenerateStandardError(t *testing.T) {
	var analyzer Analyzer

	// Every visitor converted on both arms: pooled variance collapses to zero.
	arm := VariantMetrics{Visitors: 100, Conversions: 100}
	result := analyzer.CalculateSignificance(arm, arm)

	if result.ZScore != 0 {
		t.Errorf("ZScore = %v, want 0", result.ZScore)
	}
	if result.PValue != 1 {
		t.Errorf("PValue = %v, want 1", result.PValue)
	}
	if result.IsSignificant {
		t.Error("degenerate standard error must not be significant")
	}
}

func TestAnalyzer_SwapSymmetry(t *testing.T) {
	var analyzer Analyzer

	a := VariantMetrics{Visitors: 1000, Conversions: 100}
	b := VariantMetrics{Visitors: 1000, Conversions: 150}

	forward := analyzer.CalculateSignificance(a, b)
	backward := analyzer.CalculateSignificance(b, a)

	if math.Abs(forward.ZScore+backward.ZScore) > 1e-12 {
		t.Errorf("z-scores not mirrored: %v vs %v", forward.ZScore, backward.ZScore)
	}
	if math.Abs(forward.PValue-backward.PValue) > 1e-12 {
		t.Errorf("p-values differ under swap: %v vs %v", forward.PValue, backward.PValue)
	}
	if forward.RelativeLift <= 0 || backward.RelativeLift >= 0 {
		t.Errorf("lift signs not mirrored: %v vs %v", forward.RelativeLift, backward.RelativeLift)
	}
	if forward.IsSignificant != backward.IsSignificant {
		t.Error("significance verdict changed under swap")
	}
}

func TestAnalyzer_ZeroControlRate(t *testing.T) {
	var analyzer Analyzer

	control := VariantMetrics{Visitors: 1000, Conversions: 0}
	treatment := VariantMetrics{Visitors: 1000, Conversions: 50}

	result := analyzer.CalculateSignificance(control, treatment)

	if result.RelativeLift != 0 {
		t.Errorf("RelativeLift = %v, want 0 when control rate is 0", result.RelativeLift)
	}
	if !result.IsSignificant {
		t.Error("expected significant result for 0% vs 5% conversion")
	}
}

func TestAnalyzer_CustomAlpha(t *testing.T) {
	control := VariantMetrics{Visitors: 1000, Conversions: 100}
	treatment := VariantMetrics{Visitors: 1000, Conversions: 131}

	standard := Analyzer{}.CalculateSignificance(control, treatment)
	if standard.PValue <= 0.01 || standard.PValue >= 0.05 {
		t.Fatalf("PValue = %v, fixture expects a value in (0.01, 0.05)", standard.PValue)
	}
	if !standard.IsSignificant {
		t.Error("expected significance at the default threshold")
	}

	strict := Analyzer{Alpha: 0.01}.CalculateSignificance(control, treatment)
	if strict.IsSignificant {
		t.Error("expected no significance at alpha 0.01")
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkCalculateSignificance(b *testing.B) {
	var analyzer Analyzer
	control := VariantMetrics{Visitors: 10000, Conversions: 1200}
	treatment := VariantMetrics{Visitors: 10000, Conversions: 1350}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.CalculateSignificance(control, treatment)
	}
}
