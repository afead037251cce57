package stats

import "math"

// DefaultAlpha is the significance threshold used when Analyzer.Alpha is zero.
const DefaultAlpha = 0.05

// VariantMetrics aggregates the observed counts for one experiment arm.
type VariantMetrics struct {
	Visitors    int
	Conversions int
}

// ConversionRate returns conversions per visitor. The visitor count is
// floored at one so that an arm with no traffic yields a zero rate instead
// of dividing by zero.
func (m VariantMetrics) ConversionRate() float64 {
	visitors := m.Visitors
	if visitors < 1 {
		visitors = 1
	}
	return float64(m.Conversions) / float64(visitors)
}

// SignificanceResult is the outcome of a two-proportion z-test.
type SignificanceResult struct {
	ControlRate   float64
	TreatmentRate float64
	ZScore        float64
	PValue        float64

	// RelativeLift is the treatment's improvement over control in percent.
	// It is zero when the control rate is zero.
	RelativeLift float64

	IsSignificant bool

	// Confidence is (1 - PValue) expressed in percent.
	Confidence float64
}

// Analyzer performs two-proportion z-tests over variant metrics.
// The zero value is ready to use.
type Analyzer struct {
	// Alpha is the p-value threshold below which a result counts as
	// significant. Zero means DefaultAlpha.
	Alpha float64
}

func (a Analyzer) alpha() float64 {
	if a.Alpha > 0 {
		return a.Alpha
	}
	return DefaultAlpha
}

// CalculateSignificance runs a pooled two-proportion z-test comparing the
// treatment arm against the control arm and derives the two-tailed p-value
// from NormalCDF.
//
// When the pooled standard error is zero (no conversions anywhere, or every
// visitor converted) the test degenerates: the z-score is zero, the p-value
// is one, and the result is not significant.
func (a Analyzer) CalculateSignificance(control, treatment VariantMetrics) SignificanceResult {
	controlRate := control.ConversionRate()
	treatmentRate := treatment.ConversionRate()

	result := SignificanceResult{
		ControlRate:   controlRate,
		TreatmentRate: treatmentRate,
		PValue:        1,
	}

	if controlRate != 0 {
		result.RelativeLift = (treatmentRate - controlRate) / controlRate * 100
	}

	controlN := control.Visitors
	if controlN < 1 {
		controlN = 1
	}
	treatmentN := treatment.Visitors
	if treatmentN < 1 {
		treatmentN = 1
	}

	pooled := (float64(control.Conversions) + float64(treatment.Conversions)) / float64(controlN+treatmentN)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(controlN) + 1/float64(treatmentN)))
	if se <= 0 {
		return result
	}

	result.ZScore = (treatmentRate - controlRate) / se
	result.PValue = 2 * (1 - NormalCDF(math.Abs(result.ZScore)))
	result.IsSignificant = result.PValue < a.alpha()
	result.Confidence = (1 - result.PValue) * 100

	return result
}
