package bandit

// Arm carries the observed outcome counts for one selectable variant.
// Callers own the counts; Select never mutates them.
type Arm struct {
	ID        string
	Successes int
	Failures  int
}

// Selector picks arms by Thompson Sampling over Beta posteriors.
type Selector struct {
	sampler *Sampler
}

// NewSelector returns a Selector using sampler. A nil sampler gets a
// time-seeded one.
func NewSelector(sampler *Sampler) *Selector {
	if sampler == nil {
		sampler = NewSampler(nil)
	}
	return &Selector{sampler: sampler}
}

// Select draws one sample from Beta(successes+1, failures+1) for every arm
// and returns the arm with the largest draw. Equal draws keep the earliest
// arm. Select panics on an empty slice: an experiment with no variants is a
// caller bug, not a runtime condition.
func (s *Selector) Select(arms []Arm) Arm {
	if len(arms) == 0 {
		panic("bandit: Select requires at least one arm")
	}

	best := arms[0]
	bestDraw := s.draw(arms[0])

	for _, arm := range arms[1:] {
		if d := s.draw(arm); d > bestDraw {
			best = arm
			bestDraw = d
		}
	}
	return best
}

func (s *Selector) draw(arm Arm) float64 {
	return s.sampler.Beta(float64(arm.Successes)+1, float64(arm.Failures)+1)
}
