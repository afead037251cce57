package bandit

import (
	"math"
	"math/rand"
	"time"
)

// Sampler draws from the continuous distributions Thompson Sampling needs.
// The random source is injectable so tests and simulations can replay a
// fixed sequence.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler over rng. A nil rng gets a time-seeded source.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// Gamma draws from Gamma(shape, 1) using the Marsaglia-Tsang squeeze method.
// Shapes below one are boosted through the identity
// Gamma(shape) = Gamma(shape+1) * U^(1/shape).
func (s *Sampler) Gamma(shape float64) float64 {
	if shape < 1 {
		return s.Gamma(shape+1) * math.Pow(s.rng.Float64(), 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)

	for {
		x := s.rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v

		u := s.rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// Beta draws from Beta(alpha, beta) as X/(X+Y) with X ~ Gamma(alpha) and
// Y ~ Gamma(beta).
func (s *Sampler) Beta(alpha, beta float64) float64 {
	x := s.Gamma(alpha)
	y := s.Gamma(beta)
	return x / (x + y)
}
