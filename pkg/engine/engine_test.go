package engine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"arbiter-hq/arbiter/pkg/bandit"
	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/exposure"
	"arbiter-hq/arbiter/pkg/ratelimit"
	"arbiter-hq/arbiter/pkg/stats"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		RateLimits: map[string]catalog.RateLimit{
			"reviews.create": {Operation: "reviews.create", MaxRequests: 3, WindowSeconds: 3600},
		},
		Experiments: map[string]catalog.Experiment{
			"checkout-flow": {
				ID:       "checkout-flow",
				IsActive: true,
				Audience: catalog.Audience{Kind: catalog.AudienceAll},
				Variants: []catalog.Variant{
					{ID: "control", Percentage: 50, IsControl: true},
					{ID: "one-click", Percentage: 50},
				},
			},
		},
		Flags: map[string]catalog.FeatureFlag{
			"new-dashboard": {ID: "new-dashboard", IsEnabled: true},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	eng := New(Config{Catalog: testCatalog()})
	t.Cleanup(func() { eng.Close() })
	return eng
}

// ============================================================================
// Rate Limiting Tests
// ============================================================================

func TestEngine_CanPerformAndRecordUsage(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	perm, err := eng.CanPerform(ctx, "reviews.create", "user-1")
	if err != nil {
		t.Fatalf("CanPerform() failed: %v", err)
	}
	if !perm.Allowed || perm.Remaining != 3 {
		t.Errorf("fresh check = allowed %v remaining %d, want allowed with 3", perm.Allowed, perm.Remaining)
	}

	for i := 0; i < 3; i++ {
		if err := eng.RecordUsage(ctx, "reviews.create", "user-1"); err != nil {
			t.Fatalf("RecordUsage() failed: %v", err)
		}
	}

	perm, err = eng.CanPerform(ctx, "reviews.create", "user-1")
	if err != nil {
		t.Fatalf("CanPerform() failed: %v", err)
	}
	if perm.Allowed {
		t.Error("check allowed after the limit was consumed")
	}
	if perm.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v on a denial, want > 0", perm.RetryAfter)
	}
}

func TestEngine_CanPerformUnconfigured(t *testing.T) {
	eng := newTestEngine(t)

	perm, err := eng.CanPerform(context.Background(), "never.configured", "user-1")
	if err != nil {
		t.Fatalf("CanPerform() failed: %v", err)
	}
	if !perm.Allowed || !perm.Unlimited {
		t.Errorf("unconfigured check = %+v, want allowed and unlimited", perm)
	}
}

func TestEngine_CheckMany(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		eng.RecordUsage(ctx, "reviews.create", "user-1")
	}

	check, err := eng.CheckMany(ctx, []string{"reviews.create", "search.query"}, "user-1")
	if err != nil {
		t.Fatalf("CheckMany() failed: %v", err)
	}
	if check.AllAllowed {
		t.Error("AllAllowed with an exhausted operation")
	}
	if len(check.Blocked) != 1 || check.Blocked[0].Operation != "reviews.create" {
		t.Errorf("Blocked = %+v, want reviews.create", check.Blocked)
	}
}

func TestEngine_QuotaStatus(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	eng.RecordUsage(ctx, "reviews.create", "user-1")

	status, err := eng.QuotaStatus(ctx, "user-1")
	if err != nil {
		t.Fatalf("QuotaStatus() failed: %v", err)
	}
	if len(status.Quotas) != 1 {
		t.Fatalf("Quotas len = %d, want 1", len(status.Quotas))
	}
	if q := status.Quotas[0]; q.Used != 1 || q.Remaining != 2 {
		t.Errorf("quota = %d used %d remaining, want 1 used 2 remaining", q.Used, q.Remaining)
	}
}

func TestEngine_AdaptiveLimit(t *testing.T) {
	eng := newTestEngine(t)

	adapted, ok := eng.AdaptiveLimit("reviews.create", ratelimit.UserBehavior{ErrorRate: 0.005, RecentViolations: 0})
	if !ok {
		t.Fatal("AdaptiveLimit() not ok for a configured operation")
	}
	if !adapted.IsAdaptive {
		t.Error("adapted limit missing IsAdaptive")
	}

	if _, ok := eng.AdaptiveLimit("never.configured", ratelimit.UserBehavior{}); ok {
		t.Error("AdaptiveLimit() ok for an unconfigured operation")
	}
}

func TestEngine_SweepLedger(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	eng.RecordUsage(ctx, "reviews.create", "user-1")
	eng.RecordUsage(ctx, "reviews.create", "user-2")

	removed, err := eng.SweepLedger(ctx, time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("SweepLedger() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("SweepLedger() removed %d, want 2", removed)
	}
}

// ============================================================================
// Assignment Tests
// ============================================================================

func TestEngine_GetVariant(t *testing.T) {
	eng := newTestEngine(t)

	variant, ok := eng.GetVariant("checkout-flow", "user-1")
	if !ok {
		t.Fatal("GetVariant() not ok for a known experiment")
	}
	if variant.ID != "control" && variant.ID != "one-click" {
		t.Errorf("variant = %q, want one of the declared variants", variant.ID)
	}

	// Deterministic: the same user always gets the same variant.
	again, _ := eng.GetVariant("checkout-flow", "user-1")
	if again.ID != variant.ID {
		t.Errorf("repeat assignment = %q, first was %q", again.ID, variant.ID)
	}

	if _, ok := eng.GetVariant("no-such-experiment", "user-1"); ok {
		t.Error("GetVariant() ok for an unknown experiment")
	}
}

func TestEngine_FeatureEnabled(t *testing.T) {
	eng := newTestEngine(t)

	if !eng.FeatureEnabled("new-dashboard", "user-1") {
		t.Error("globally enabled flag reported off")
	}
	if eng.FeatureEnabled("no-such-flag", "user-1") {
		t.Error("unknown flag reported on")
	}
}

func TestEngine_TrackExposure(t *testing.T) {
	eng := newTestEngine(t)

	event, err := eng.TrackExposure(context.Background(), "checkout-flow", "one-click", "user-1")
	if err != nil {
		t.Fatalf("TrackExposure() failed: %v", err)
	}
	if event.ID == "" {
		t.Error("exposure event has no id")
	}
	if event.ExperimentID != "checkout-flow" || event.VariantID != "one-click" || event.UserID != "user-1" {
		t.Errorf("event = %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Error("exposure event has no timestamp")
	}
}

func TestEngine_TrackExposureForwardsToSink(t *testing.T) {
	sink := exposure.NewMemorySink(exposure.MemorySinkConfig{Capacity: 10})
	eng := New(Config{Catalog: testCatalog(), Sink: sink})
	defer eng.Close()

	if _, err := eng.TrackExposure(context.Background(), "checkout-flow", "control", "user-1"); err != nil {
		t.Fatalf("TrackExposure() failed: %v", err)
	}

	events := sink.Drain()
	if len(events) != 1 {
		t.Fatalf("sink holds %d events, want 1", len(events))
	}
	if events[0].VariantID != "control" {
		t.Errorf("sunk event variant = %q, want control", events[0].VariantID)
	}
}

// ============================================================================
// Bandit and Significance Tests
// ============================================================================

func TestEngine_SelectArm(t *testing.T) {
	sampler := bandit.NewSampler(rand.New(rand.NewSource(7)))
	eng := New(Config{Catalog: testCatalog(), Sampler: sampler})
	defer eng.Close()

	arms := []bandit.Arm{
		{ID: "weak", Successes: 5, Failures: 95},
		{ID: "strong", Successes: 95, Failures: 5},
	}

	strong := 0
	for i := 0; i < 200; i++ {
		if eng.SelectArm(arms).ID == "strong" {
			strong++
		}
	}
	if strong < 180 {
		t.Errorf("strong arm selected %d/200 times, want a heavy majority", strong)
	}
}

func TestEngine_Significance(t *testing.T) {
	eng := newTestEngine(t)

	result := eng.Significance(
		stats.VariantMetrics{Visitors: 10000, Conversions: 500},
		stats.VariantMetrics{Visitors: 10000, Conversions: 700},
	)
	if !result.IsSignificant {
		t.Error("large conversion gap not significant")
	}
	if result.RelativeLift <= 0 {
		t.Errorf("RelativeLift = %v, want positive", result.RelativeLift)
	}
}

// ============================================================================
// Catalog Lifecycle Tests
// ============================================================================

func TestEngine_ReloadCatalog(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	next := catalog.Empty()
	next.RateLimits["uploads.create"] = catalog.RateLimit{Operation: "uploads.create", MaxRequests: 1, WindowSeconds: 60}
	eng.ReloadCatalog(next)

	perm, err := eng.CanPerform(ctx, "uploads.create", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if perm.Unlimited {
		t.Error("operation from the reloaded catalog still unlimited")
	}

	// The old catalog's limit is gone.
	perm, err = eng.CanPerform(ctx, "reviews.create", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !perm.Unlimited {
		t.Error("operation dropped from the catalog still limited")
	}

	// Nil reloads are ignored.
	eng.ReloadCatalog(nil)
	if eng.Catalog() == nil {
		t.Fatal("nil reload replaced the active catalog")
	}
}
