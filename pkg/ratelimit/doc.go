// Package ratelimit provides sliding-window rate limiting computed from
// recorded usage.
//
// # Overview
//
// The limiter holds no counters of its own: every decision is derived from a
// timestamp scan of the usage ledger against limits supplied per call. It
// supports:
//
//   - Permission checks with remaining quota, reset time, and retry hints
//   - Multi-operation checks that aggregate independent decisions
//   - Quota status projection for user-facing display
//   - Burst detection over inter-arrival intervals
//   - Availability forecasting for batch work
//   - Behavior-derived adaptive limits
//
// # Semantics
//
// Operations without a configured limit are always allowed (fail open): a
// missing catalog entry must never take user traffic down. A window of
// length W at time now counts records stamped in [now-W, now]; remaining
// quota is the configured maximum minus that count, floored at zero.
//
// Checking and recording are separate calls by design. Under concurrency a
// burst can momentarily exceed a limit; the sliding window absorbs the
// overshoot on subsequent checks.
//
// # Usage
//
//	limiter := ratelimit.NewLimiter(ledger.NewMemoryLedger(), ratelimit.Config{})
//	perm, err := limiter.CanPerform(ctx, "reviews.create", "user-42", limits)
//	if err != nil {
//	    return err
//	}
//	if !perm.Allowed {
//	    return fmt.Errorf("rate limited, retry in %s", perm.RetryAfter)
//	}
//
// # Thread Safety
//
// Limiter is stateless apart from the ledger it queries and is safe for
// concurrent use.
package ratelimit
