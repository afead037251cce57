package main

import (
	"context"
	"testing"
	"time"

	"arbiter-hq/arbiter/pkg/catalog"
)

func checkTestCatalog(t *testing.T, yaml string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return c
}

func TestSimulateTrafficFillsWindow(t *testing.T) {
	c := checkTestCatalog(t, `
rate_limits:
  - operation: api_call
    max_requests: 5
    window_seconds: 60
`)

	checkFlags.operation = "api_call"
	checkFlags.user = "test-user"
	checkFlags.count = 10
	checkFlags.interval = time.Millisecond
	checkFlags.predict = 1

	report, err := simulateTraffic(context.Background(), c)
	if err != nil {
		t.Fatalf("simulateTraffic() error = %v", err)
	}

	if report.Allowed != 5 {
		t.Errorf("Allowed = %d, want 5", report.Allowed)
	}
	if report.Denied != 5 {
		t.Errorf("Denied = %d, want 5", report.Denied)
	}
	if report.FirstDenial != 6 {
		t.Errorf("FirstDenial = %d, want 6", report.FirstDenial)
	}
	if report.Unlimited {
		t.Error("configured operation should not report Unlimited")
	}

	if report.Quota == nil || len(report.Quota.Quotas) != 1 {
		t.Fatalf("Quota missing: %+v", report.Quota)
	}
	q := report.Quota.Quotas[0]
	if q.Used != 5 || q.Remaining != 0 {
		t.Errorf("quota = %d used %d remaining, want 5 used 0 remaining", q.Used, q.Remaining)
	}

	if report.Forecast == nil || report.Forecast.Available {
		t.Errorf("Forecast should report unavailable: %+v", report.Forecast)
	}
}

func TestSimulateTrafficDetectsBurst(t *testing.T) {
	c := checkTestCatalog(t, `
rate_limits:
  - operation: api_call
    max_requests: 100
    window_seconds: 60
`)

	checkFlags.operation = "api_call"
	checkFlags.user = "test-user"
	checkFlags.count = 15
	checkFlags.interval = time.Millisecond
	checkFlags.predict = 1

	report, err := simulateTraffic(context.Background(), c)
	if err != nil {
		t.Fatalf("simulateTraffic() error = %v", err)
	}

	if report.Allowed != 15 {
		t.Errorf("Allowed = %d, want 15", report.Allowed)
	}
	if report.Burst == nil || !report.Burst.IsBurst {
		t.Errorf("1ms spacing should register as a burst: %+v", report.Burst)
	}
}

func TestSimulateTrafficUnconfiguredOperation(t *testing.T) {
	c := checkTestCatalog(t, `
rate_limits:
  - operation: other_op
    max_requests: 1
    window_seconds: 60
`)

	checkFlags.operation = "api_call"
	checkFlags.user = "test-user"
	checkFlags.count = 20
	checkFlags.interval = time.Millisecond
	checkFlags.predict = 1

	report, err := simulateTraffic(context.Background(), c)
	if err != nil {
		t.Fatalf("simulateTraffic() error = %v", err)
	}

	if !report.Unlimited {
		t.Error("unconfigured operation should report Unlimited")
	}
	if report.Allowed != 20 || report.Denied != 0 {
		t.Errorf("unconfigured operation should allow everything: %+v", report)
	}
}

func TestRunCheckRejectsBadFlags(t *testing.T) {
	checkFlags.catalogPath = "testdata/valid-catalog.yaml"
	checkFlags.operation = "api_call"
	checkFlags.user = "test-user"
	checkFlags.count = 0
	checkFlags.interval = time.Millisecond
	checkFlags.format = "text"

	if err := runCheck(nil, []string{}); err == nil {
		t.Error("runCheck() with zero count should return error")
	}

	checkFlags.count = 10
	checkFlags.interval = 0
	if err := runCheck(nil, []string{}); err == nil {
		t.Error("runCheck() with zero interval should return error")
	}
	checkFlags.interval = 50 * time.Millisecond
}

func TestRunCheckMissingCatalog(t *testing.T) {
	checkFlags.catalogPath = "testdata/nonexistent.yaml"
	checkFlags.operation = "api_call"
	checkFlags.user = "test-user"
	checkFlags.count = 5
	checkFlags.interval = time.Millisecond
	checkFlags.format = "text"

	if err := runCheck(nil, []string{}); err == nil {
		t.Error("runCheck() with missing catalog should return error")
	}
}
