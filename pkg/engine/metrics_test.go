package engine

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"arbiter-hq/arbiter/pkg/ratelimit"
	"arbiter-hq/arbiter/pkg/stats"
)

func TestMetrics_RecordDecision(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics("test", registry)

	m.RecordDecision("reviews.create", true)
	m.RecordDecision("reviews.create", true)
	m.RecordDecision("reviews.create", false)

	allowed := testutil.ToFloat64(m.decisions.WithLabelValues("reviews.create", "allowed"))
	if allowed != 2 {
		t.Errorf("allowed counter = %f, want 2", allowed)
	}
	denied := testutil.ToFloat64(m.decisions.WithLabelValues("reviews.create", "denied"))
	if denied != 1 {
		t.Errorf("denied counter = %f, want 1", denied)
	}
}

func TestMetrics_RecordOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics("test", registry)

	m.RecordAssignment("checkout-flow", "one-click")
	m.RecordSelection("one-click")
	m.RecordBurstDetection("search.query", ratelimit.RecommendThrottle)
	m.RecordSignificance(true)
	m.RecordExposure("checkout-flow")
	m.RecordSweep(5)

	if v := testutil.ToFloat64(m.assignments.WithLabelValues("checkout-flow", "one-click")); v != 1 {
		t.Errorf("assignments = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.bursts.WithLabelValues("search.query", "throttle")); v != 1 {
		t.Errorf("bursts = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.significance.WithLabelValues("significant")); v != 1 {
		t.Errorf("significance = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.sweptEntries); v != 5 {
		t.Errorf("swept entries = %f, want 5", v)
	}
}

// TestEngine_MetricsWired exercises the engine with metrics attached so the
// recording paths run end to end.
func TestEngine_MetricsWired(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics("test", registry)

	eng := New(Config{Catalog: testCatalog(), Metrics: metrics})
	defer eng.Close()

	ctx := context.Background()

	eng.CanPerform(ctx, "reviews.create", "user-1")
	eng.RecordUsage(ctx, "reviews.create", "user-1")
	variant, _ := eng.GetVariant("checkout-flow", "user-1")
	eng.TrackExposure(ctx, "checkout-flow", variant.ID, "user-1")
	eng.Significance(
		stats.VariantMetrics{Visitors: 1000, Conversions: 50},
		stats.VariantMetrics{Visitors: 1000, Conversions: 120},
	)

	if v := testutil.ToFloat64(metrics.decisions.WithLabelValues("reviews.create", "allowed")); v != 1 {
		t.Errorf("decision counter = %f, want 1", v)
	}
	if v := testutil.ToFloat64(metrics.assignments.WithLabelValues("checkout-flow", variant.ID)); v != 1 {
		t.Errorf("assignment counter = %f, want 1", v)
	}
	if v := testutil.ToFloat64(metrics.exposures.WithLabelValues("checkout-flow")); v != 1 {
		t.Errorf("exposure counter = %f, want 1", v)
	}
}
