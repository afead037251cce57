package ratelimit

import (
	"testing"
	"time"

	"arbiter-hq/arbiter/pkg/catalog"
)

func baseLimit(maxRequests int) catalog.RateLimit {
	return catalog.RateLimit{Operation: "reviews.create", MaxRequests: maxRequests, WindowSeconds: 3600}
}

// ============================================================================
// AdaptiveLimit Tests
// ============================================================================

func TestAdaptiveLimit_TrustedUserEarnsHeadroom(t *testing.T) {
	behavior := UserBehavior{
		ErrorRate:          0.005,
		AvgRequestInterval: 6 * time.Second,
		AccountAge:         31 * 24 * time.Hour,
	}

	adapted := AdaptiveLimit(baseLimit(100), behavior)

	// 1.0 + 0.2 (clean) + 0.1 (unhurried) + 0.1 (established) = 1.4
	if adapted.MaxRequests != 140 {
		t.Errorf("MaxRequests = %d, want 140", adapted.MaxRequests)
	}
	if !adapted.IsAdaptive {
		t.Error("IsAdaptive not set on the adapted limit")
	}
}

func TestAdaptiveLimit_AbusiveUserClampedToFloor(t *testing.T) {
	behavior := UserBehavior{
		ErrorRate:        0.15,
		RecentViolations: 3,
	}

	adapted := AdaptiveLimit(baseLimit(100), behavior)

	// 1.0 - 0.3 - 0.6 drops below the floor and clamps to 0.5.
	if adapted.MaxRequests != 50 {
		t.Errorf("MaxRequests = %d, want 50", adapted.MaxRequests)
	}
}

func TestAdaptiveLimit_NeutralBehaviorKeepsBase(t *testing.T) {
	behavior := UserBehavior{
		ErrorRate:          0.05,
		AvgRequestInterval: time.Second,
		AccountAge:         24 * time.Hour,
	}

	adapted := AdaptiveLimit(baseLimit(100), behavior)

	if adapted.MaxRequests != 100 {
		t.Errorf("MaxRequests = %d, want the unchanged 100", adapted.MaxRequests)
	}
	if !adapted.IsAdaptive {
		t.Error("IsAdaptive not set even when the factor is neutral")
	}
}

func TestAdaptiveLimit_ViolationsSubtract(t *testing.T) {
	behavior := UserBehavior{
		ErrorRate:        0.05,
		RecentViolations: 1,
	}

	adapted := AdaptiveLimit(baseLimit(100), behavior)

	if adapted.MaxRequests != 80 {
		t.Errorf("MaxRequests = %d, want 80", adapted.MaxRequests)
	}
}

func TestAdaptiveLimit_ThresholdsAreStrict(t *testing.T) {
	// Rates sitting exactly on a threshold earn neither bonus nor penalty.
	behavior := UserBehavior{
		ErrorRate:          0.01,
		AvgRequestInterval: 5 * time.Second,
		AccountAge:         30 * 24 * time.Hour,
	}

	adapted := AdaptiveLimit(baseLimit(100), behavior)

	if adapted.MaxRequests != 100 {
		t.Errorf("MaxRequests = %d, want 100", adapted.MaxRequests)
	}

	behavior.ErrorRate = 0.10
	adapted = AdaptiveLimit(baseLimit(100), behavior)
	if adapted.MaxRequests != 100 {
		t.Errorf("MaxRequests at 10%% error rate = %d, want 100", adapted.MaxRequests)
	}
}

func TestAdaptiveLimit_DoesNotMutateBase(t *testing.T) {
	base := baseLimit(100)
	behavior := UserBehavior{ErrorRate: 0.15, RecentViolations: 3}

	AdaptiveLimit(base, behavior)

	if base.MaxRequests != 100 {
		t.Errorf("base.MaxRequests = %d after the call, want 100", base.MaxRequests)
	}
	if base.IsAdaptive {
		t.Error("base.IsAdaptive flipped by the call")
	}
}

func TestAdaptiveLimit_NeverDropsBelowOneRequest(t *testing.T) {
	behavior := UserBehavior{ErrorRate: 0.15, RecentViolations: 10}

	adapted := AdaptiveLimit(baseLimit(1), behavior)

	if adapted.MaxRequests < 1 {
		t.Errorf("MaxRequests = %d, want at least 1", adapted.MaxRequests)
	}
}

func TestAdaptiveLimit_RoundsHalfAwayFromZero(t *testing.T) {
	behavior := UserBehavior{ErrorRate: 0.15, RecentViolations: 3}

	adapted := AdaptiveLimit(baseLimit(5), behavior)

	// 5 * 0.5 = 2.5 rounds to 3.
	if adapted.MaxRequests != 3 {
		t.Errorf("MaxRequests = %d, want 3", adapted.MaxRequests)
	}
}
