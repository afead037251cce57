package stats

import "math"

// Abramowitz-Stegun 26.2.17 coefficients.
const (
	asP  = 0.2316419
	asB1 = 0.319381530
	asB2 = -0.356563782
	asB3 = 1.781477937
	asB4 = -1.821255978
	asB5 = 1.330274429
)

// NormalCDF approximates the standard normal cumulative distribution function
// Φ(x). The approximation is the Abramowitz-Stegun five-term polynomial with
// absolute error below 7.5e-8; negative inputs use the symmetry
// Φ(-x) = 1 - Φ(x).
func NormalCDF(x float64) float64 {
	if x < 0 {
		return 1 - NormalCDF(-x)
	}

	t := 1 / (1 + asP*x)
	poly := t * (asB1 + t*(asB2+t*(asB3+t*(asB4+t*asB5))))
	density := math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)

	return 1 - density*poly
}
