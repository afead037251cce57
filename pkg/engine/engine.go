package engine

import (
	"context"
	"log/slog"
	"time"

	"arbiter-hq/arbiter/pkg/assign"
	"arbiter-hq/arbiter/pkg/bandit"
	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/exposure"
	"arbiter-hq/arbiter/pkg/ratelimit"
	"arbiter-hq/arbiter/pkg/ratelimit/ledger"
	"arbiter-hq/arbiter/pkg/stats"
)

// Engine coordinates rate limiting, experiment assignment, bandit selection,
// and significance analysis behind one embedded API.
//
// The Engine is the primary interface for host applications. It resolves the
// active catalog, delegates to the specialized components, and records
// metrics when configured.
//
// # Example
//
//	eng := engine.New(engine.Config{Catalog: cat})
//	defer eng.Close()
//
//	perm, err := eng.CanPerform(ctx, "reviews.create", userID)
//	if !perm.Allowed {
//	    // surface perm.RetryAfter to the caller
//	}
//	eng.RecordUsage(ctx, "reviews.create", userID)
type Engine struct {
	store    *catalog.Store
	ledger   ledger.Ledger
	limiter  *ratelimit.Limiter
	assigner *assign.Assigner
	selector *bandit.Selector
	analyzer stats.Analyzer
	sink     exposure.Sink
	metrics  *Metrics
	logger   *slog.Logger

	// onClose hooks run during Close, in reverse registration order, before
	// the ledger and sink are released. FromConfig registers watcher and
	// retention shutdown here.
	onClose []func()
}

// Config contains configuration for the decision engine.
type Config struct {
	// Catalog is the initial decision catalog.
	// Default: an empty catalog (every rate limit check fails open, every
	// flag check fails closed).
	Catalog *catalog.Catalog

	// Ledger backs usage recording and window scans.
	// Default: an in-memory ledger.
	Ledger ledger.Ledger

	// Scope controls whether window scans count all usage or only the
	// checking user's.
	// Default: ScopeGlobal.
	Scope ratelimit.Scope

	// Now overrides the limiter's clock. Intended for tests.
	// Default: time.Now.
	Now func() time.Time

	// Sampler drives bandit selection. Pass a seeded sampler for
	// reproducible draws.
	// Default: a time-seeded sampler.
	Sampler *bandit.Sampler

	// Alpha is the significance threshold for Significance.
	// Default: stats.DefaultAlpha (0.05).
	Alpha float64

	// Sink receives exposure events from TrackExposure. Optional.
	Sink exposure.Sink

	// Metrics records Prometheus metrics. Optional.
	Metrics *Metrics

	// Logger receives lifecycle logs.
	// Default: slog.Default().
	Logger *slog.Logger
}

// New creates a decision engine with the given configuration.
func New(config Config) *Engine {
	if config.Catalog == nil {
		config.Catalog = catalog.Empty()
	}
	if config.Ledger == nil {
		config.Ledger = ledger.NewMemoryLedger()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	e := &Engine{
		store:    catalog.NewStore(config.Catalog),
		ledger:   config.Ledger,
		limiter:  ratelimit.NewLimiter(config.Ledger, ratelimit.Config{Scope: config.Scope, Now: config.Now}),
		assigner: assign.NewAssigner(),
		selector: bandit.NewSelector(config.Sampler),
		analyzer: stats.Analyzer{Alpha: config.Alpha},
		sink:     config.Sink,
		metrics:  config.Metrics,
		logger:   config.Logger.With("component", "engine"),
	}

	e.logger.Info("decision engine initialized",
		"rate_limits", len(config.Catalog.RateLimits),
		"experiments", len(config.Catalog.Experiments),
		"flags", len(config.Catalog.Flags),
		"scope", string(config.Scope),
	)

	return e
}

// Store returns the catalog store, for wiring a catalog.Watcher that should
// hot-swap this engine's active catalog.
func (e *Engine) Store() *catalog.Store {
	return e.store
}

// Catalog returns the currently active catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.store.Active()
}

// Sink returns the configured exposure sink, or nil when none is set. Hosts
// drain buffered events through the concrete sink type:
//
//	if ms, ok := eng.Sink().(*exposure.MemorySink); ok {
//	    events := ms.Drain()
//	    // ship events
//	}
func (e *Engine) Sink() exposure.Sink {
	return e.sink
}

// ReloadCatalog swaps in a new catalog. A nil catalog is ignored.
func (e *Engine) ReloadCatalog(c *catalog.Catalog) {
	if c == nil {
		return
	}
	e.store.Swap(c)
	e.logger.Info("catalog reloaded",
		"rate_limits", len(c.RateLimits),
		"experiments", len(c.Experiments),
		"flags", len(c.Flags),
	)
}

// CanPerform checks whether userID may perform op right now. Operations with
// no configured limit are allowed and flagged Unlimited.
func (e *Engine) CanPerform(ctx context.Context, op, userID string) (*ratelimit.Permission, error) {
	start := time.Now()

	perm, err := e.limiter.CanPerform(ctx, op, userID, e.store.Active().RateLimits)
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RecordDecision(op, perm.Allowed)
		e.metrics.ObserveDecisionDuration("can_perform", time.Since(start).Seconds())
	}

	return perm, nil
}

// RecordUsage appends one usage record for op by userID.
//
// CanPerform and RecordUsage are advisory as a pair: nothing stops two
// callers from both checking and then both recording past the limit.
func (e *Engine) RecordUsage(ctx context.Context, op, userID string) error {
	_, err := e.ledger.Record(ctx, op, userID)
	return err
}

// CheckMany checks several operations in one call.
func (e *Engine) CheckMany(ctx context.Context, ops []string, userID string) (*ratelimit.OperationsCheck, error) {
	start := time.Now()

	check, err := e.limiter.CheckMany(ctx, ops, userID, e.store.Active().RateLimits)
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		for _, perm := range check.Permissions {
			e.metrics.RecordDecision(perm.Operation, perm.Allowed)
		}
		e.metrics.ObserveDecisionDuration("check_many", time.Since(start).Seconds())
	}

	return check, nil
}

// QuotaStatus reports usage against every configured limit for userID.
func (e *Engine) QuotaStatus(ctx context.Context, userID string) (*ratelimit.QuotaStatus, error) {
	return e.limiter.QuotaStatus(ctx, userID, e.store.Active().RateLimits)
}

// DetectBurst analyzes the most recent usage records for op by userID with
// the default burst window.
func (e *Engine) DetectBurst(ctx context.Context, op, userID string) (*ratelimit.BurstAnalysis, error) {
	analysis, err := e.limiter.DetectBurst(ctx, op, userID, ratelimit.BurstOptions{})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RecordBurstDetection(op, analysis.Recommendation)
	}

	return analysis, nil
}

// PredictAvailability forecasts when requestedCount slots for op will be
// available to userID.
func (e *Engine) PredictAvailability(ctx context.Context, op, userID string, requestedCount int) (*ratelimit.AvailabilityForecast, error) {
	return e.limiter.PredictAvailability(ctx, op, userID, requestedCount, e.store.Active().RateLimits)
}

// AdaptiveLimit derives a personalized limit for op from observed behavior.
// The second return is false when op has no configured base limit.
func (e *Engine) AdaptiveLimit(op string, behavior ratelimit.UserBehavior) (catalog.RateLimit, bool) {
	base, ok := e.store.Active().RateLimits[op]
	if !ok {
		return catalog.RateLimit{}, false
	}
	return ratelimit.AdaptiveLimit(base, behavior), true
}

// GetVariant deterministically assigns userID to a variant of the named
// experiment. The second return is false when the experiment is unknown.
func (e *Engine) GetVariant(experimentID, userID string) (catalog.Variant, bool) {
	exp, ok := e.store.Active().Experiments[experimentID]
	if !ok {
		return catalog.Variant{}, false
	}

	variant := e.assigner.GetVariant(userID, exp)

	if e.metrics != nil {
		e.metrics.RecordAssignment(experimentID, variant.ID)
	}

	return variant, true
}

// FeatureEnabled evaluates the named feature flag for userID. Unknown flags
// are off.
func (e *Engine) FeatureEnabled(flagID, userID string) bool {
	flag, ok := e.store.Active().Flags[flagID]
	if !ok {
		return false
	}
	return e.assigner.FlagEnabled(userID, flag)
}

// TrackExposure constructs an exposure event and, when a sink is configured,
// records it there. The event is returned either way so the host can
// transmit it through its own channels.
func (e *Engine) TrackExposure(ctx context.Context, experimentID, variantID, userID string) (assign.ExposureEvent, error) {
	event := e.assigner.TrackExposure(experimentID, variantID, userID)

	if e.metrics != nil {
		e.metrics.RecordExposure(experimentID)
	}

	if e.sink != nil {
		if err := e.sink.Record(ctx, event); err != nil {
			return event, err
		}
	}

	return event, nil
}

// SelectArm picks an arm by Thompson sampling over the arms' recorded
// successes and failures. It panics when arms is empty.
func (e *Engine) SelectArm(arms []bandit.Arm) bandit.Arm {
	arm := e.selector.Select(arms)

	if e.metrics != nil {
		e.metrics.RecordSelection(arm.ID)
	}

	return arm
}

// Significance runs a two-proportion z-test of treatment against control.
func (e *Engine) Significance(control, treatment stats.VariantMetrics) stats.SignificanceResult {
	result := e.analyzer.CalculateSignificance(control, treatment)

	if e.metrics != nil {
		e.metrics.RecordSignificance(result.IsSignificant)
	}

	return result
}

// SweepLedger removes usage entries stamped before olderThan and returns how
// many were removed. Ledgers already evict opportunistically; this forces a
// pass, e.g. from a maintenance command.
func (e *Engine) SweepLedger(ctx context.Context, olderThan time.Time) (int, error) {
	removed, err := e.ledger.Sweep(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	if e.metrics != nil && removed > 0 {
		e.metrics.RecordSweep(removed)
	}

	return removed, nil
}

// Close stops everything the engine started and releases the ledger and,
// when configured, the exposure sink.
func (e *Engine) Close() error {
	var firstErr error

	for i := len(e.onClose) - 1; i >= 0; i-- {
		e.onClose[i]()
	}

	if err := e.ledger.Close(); err != nil {
		firstErr = err
	}
	if e.sink != nil {
		if err := e.sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	e.logger.Info("decision engine closed")
	return firstErr
}
