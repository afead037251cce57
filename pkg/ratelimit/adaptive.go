package ratelimit

import (
	"math"
	"time"

	"arbiter-hq/arbiter/pkg/catalog"
)

// Adaptive limit multiplier bounds.
const (
	minAdaptiveFactor = 0.5
	maxAdaptiveFactor = 2.0
)

// AdaptiveLimit derives a personalized limit from base according to observed
// behavior. The result carries IsAdaptive and never touches base or the
// catalog it came from; persisting or applying the derived limit is the
// caller's choice.
//
// The multiplier starts at 1.0. An error rate under 1% adds 0.2, a mean
// request gap over 5s adds 0.1, an account older than 30 days adds 0.1, an
// error rate over 10% subtracts 0.3, and every recent violation subtracts
// 0.2. The final factor is clamped to [0.5, 2.0].
func AdaptiveLimit(base catalog.RateLimit, behavior UserBehavior) catalog.RateLimit {
	factor := 1.0

	if behavior.ErrorRate < 0.01 {
		factor += 0.2
	} else if behavior.ErrorRate > 0.10 {
		factor -= 0.3
	}
	if behavior.AvgRequestInterval > 5*time.Second {
		factor += 0.1
	}
	if behavior.AccountAge > 30*24*time.Hour {
		factor += 0.1
	}
	factor -= 0.2 * float64(behavior.RecentViolations)

	if factor < minAdaptiveFactor {
		factor = minAdaptiveFactor
	}
	if factor > maxAdaptiveFactor {
		factor = maxAdaptiveFactor
	}

	adapted := base
	adapted.MaxRequests = int(math.Round(float64(base.MaxRequests) * factor))
	if adapted.MaxRequests < 1 {
		adapted.MaxRequests = 1
	}
	adapted.IsAdaptive = true

	return adapted
}
