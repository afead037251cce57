package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/ratelimit/ledger"
)

// Burst detection defaults.
const (
	DefaultBurstWindowSize  = 10
	DefaultBurstMinInterval = 100 * time.Millisecond
)

// Config configures a Limiter.
type Config struct {
	// Scope selects whose records window scans count.
	// Default: ScopeGlobal, where a limit is one shared pool per operation.
	Scope Scope

	// Now supplies the limiter's clock. Default: time.Now.
	Now func() time.Time
}

// BurstOptions tunes burst detection. Zero values take the defaults.
type BurstOptions struct {
	// WindowSize is how many recent records to examine. Intervals need at
	// least two records, so values below 2 take the default of 10.
	WindowSize int

	// MinInterval is the average inter-arrival gap below which the sample
	// counts as a burst. Default: 100ms.
	MinInterval time.Duration
}

// Limiter answers permission, quota, burst, and availability questions from
// usage recorded in a ledger. Limits are supplied per call; the Limiter
// itself holds no catalog state and no counters.
type Limiter struct {
	ledger ledger.Ledger
	scope  Scope
	now    func() time.Time
}

// NewLimiter creates a Limiter over l. A nil l gets a fresh in-memory
// ledger.
func NewLimiter(l ledger.Ledger, cfg Config) *Limiter {
	if l == nil {
		l = ledger.NewMemoryLedger()
	}
	if cfg.Scope == "" {
		cfg.Scope = ScopeGlobal
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Limiter{
		ledger: l,
		scope:  cfg.Scope,
		now:    cfg.Now,
	}
}

// scopedUser maps userID onto the ledger query according to the configured
// scope. Global scope queries across all users.
func (l *Limiter) scopedUser(userID string) string {
	if l.scope == ScopePerUser {
		return userID
	}
	return ""
}

// CanPerform reports whether userID may perform op right now.
//
// Operations with no entry in limits are always allowed, flagged Unlimited:
// an operation the catalog forgot must fail open rather than block traffic.
// Otherwise the decision counts ledger records inside the sliding window
// ending now. ResetsAt is when the oldest in-window record ages out;
// RetryAfter is the wait until then, set only on denial.
func (l *Limiter) CanPerform(ctx context.Context, op, userID string, limits map[string]catalog.RateLimit) (*Permission, error) {
	limit, ok := limits[op]
	if !ok {
		return &Permission{Operation: op, Allowed: true, Unlimited: true}, nil
	}

	now := l.now()
	window := limit.Window()

	stamps, err := l.ledger.Timestamps(ctx, ledger.Query{
		Operation: op,
		UserID:    l.scopedUser(userID),
		Since:     now.Add(-window),
	})
	if err != nil {
		return nil, fmt.Errorf("window scan for %q: %w", op, err)
	}

	remaining := limit.MaxRequests - len(stamps)
	if remaining < 0 {
		remaining = 0
	}

	perm := &Permission{
		Operation: op,
		Allowed:   remaining > 0,
		Remaining: remaining,
		Limit:     limit.MaxRequests,
	}
	if len(stamps) > 0 {
		perm.ResetsAt = stamps[0].Add(window)
	}
	if !perm.Allowed {
		perm.RetryAfter = perm.ResetsAt.Sub(now)
	}

	return perm, nil
}

// CheckMany checks every operation in ops independently and aggregates the
// results. AllAllowed is true only when every single check passed; denied
// operations are listed in Blocked with their retry hints.
func (l *Limiter) CheckMany(ctx context.Context, ops []string, userID string, limits map[string]catalog.RateLimit) (*OperationsCheck, error) {
	check := &OperationsCheck{AllAllowed: true}

	for _, op := range ops {
		perm, err := l.CanPerform(ctx, op, userID, limits)
		if err != nil {
			return nil, err
		}
		check.Permissions = append(check.Permissions, *perm)

		if perm.Allowed {
			continue
		}
		check.AllAllowed = false

		retry := perm.RetryAfter
		if retry <= 0 {
			retry = DefaultRetryAfter
		}
		check.Blocked = append(check.Blocked, BlockedOperation{Operation: op, RetryAfter: retry})
	}

	return check, nil
}

// QuotaStatus projects every configured limit for userID, sorted by
// operation name for stable display.
func (l *Limiter) QuotaStatus(ctx context.Context, userID string, limits map[string]catalog.RateLimit) (*QuotaStatus, error) {
	ops := make([]string, 0, len(limits))
	for op := range limits {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	status := &QuotaStatus{UserID: userID, AsOf: l.now()}

	for _, op := range ops {
		perm, err := l.CanPerform(ctx, op, userID, limits)
		if err != nil {
			return nil, err
		}

		limit := limits[op]
		status.Quotas = append(status.Quotas, QuotaEntry{
			Operation: op,
			Used:      limit.MaxRequests - perm.Remaining,
			Limit:     limit.MaxRequests,
			Remaining: perm.Remaining,
			Window:    limit.Window(),
			ResetsAt:  perm.ResetsAt,
		})
	}

	return status, nil
}

// DetectBurst examines the most recent records for op and reports whether
// they arrived suspiciously fast.
//
// Fewer records than the window size is inconclusive and never flags a
// burst. Otherwise the sample is a burst when the mean inter-arrival gap is
// below the threshold; a gap below half the threshold escalates the
// recommendation from throttle to block.
func (l *Limiter) DetectBurst(ctx context.Context, op, userID string, opts BurstOptions) (*BurstAnalysis, error) {
	if opts.WindowSize < 2 {
		opts.WindowSize = DefaultBurstWindowSize
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultBurstMinInterval
	}

	stamps, err := l.ledger.Timestamps(ctx, ledger.Query{
		Operation: op,
		UserID:    l.scopedUser(userID),
		LastN:     opts.WindowSize,
	})
	if err != nil {
		return nil, fmt.Errorf("burst scan for %q: %w", op, err)
	}

	analysis := &BurstAnalysis{
		Operation:      op,
		SampleSize:     len(stamps),
		MinInterval:    opts.MinInterval,
		Recommendation: RecommendAllow,
	}

	if len(stamps) < opts.WindowSize {
		return analysis, nil
	}

	var total time.Duration
	for i := 1; i < len(stamps); i++ {
		total += stamps[i].Sub(stamps[i-1])
	}
	avg := total / time.Duration(len(stamps)-1)

	analysis.AvgInterval = avg
	analysis.IsBurst = avg < opts.MinInterval

	switch {
	case avg < opts.MinInterval/2:
		analysis.Recommendation = RecommendBlock
	case analysis.IsBurst:
		analysis.Recommendation = RecommendThrottle
	}

	return analysis, nil
}

// PredictAvailability reports when requestedCount slots will be free for op.
//
// Unconfigured operations and requests that fit the remaining headroom are
// available immediately. Otherwise the forecast is the expiry of the k-th
// oldest in-window record, where k is the shortfall. A shortfall larger
// than the whole window can ever free falls back to one full window from
// now.
func (l *Limiter) PredictAvailability(ctx context.Context, op, userID string, requestedCount int, limits map[string]catalog.RateLimit) (*AvailabilityForecast, error) {
	now := l.now()
	forecast := &AvailabilityForecast{
		Operation:      op,
		RequestedCount: requestedCount,
		Available:      true,
		AvailableAt:    now,
	}

	limit, ok := limits[op]
	if !ok {
		return forecast, nil
	}

	window := limit.Window()
	stamps, err := l.ledger.Timestamps(ctx, ledger.Query{
		Operation: op,
		UserID:    l.scopedUser(userID),
		Since:     now.Add(-window),
	})
	if err != nil {
		return nil, fmt.Errorf("window scan for %q: %w", op, err)
	}

	remaining := limit.MaxRequests - len(stamps)
	if remaining < 0 {
		remaining = 0
	}
	if requestedCount <= remaining {
		return forecast, nil
	}

	forecast.Available = false

	shortfall := requestedCount - remaining
	if shortfall > len(stamps) {
		forecast.AvailableAt = now.Add(window)
		return forecast, nil
	}

	forecast.AvailableAt = stamps[shortfall-1].Add(window)
	return forecast, nil
}
