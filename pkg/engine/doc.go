// Package engine provides the embedded decision engine facade.
//
// # Overview
//
// The engine package ties the decision components together behind one API.
// A host application constructs a single Engine and asks it every runtime
// question the catalog can answer:
//
//   - Rate limit checks, quota projection, burst detection, forecasts
//   - Adaptive per-user limit derivation
//   - Deterministic experiment assignment and feature flag evaluation
//   - Exposure event construction and local buffering
//   - Thompson-sampling arm selection
//   - Two-proportion significance analysis
//
// # Architecture
//
// The engine delegates to the specialized packages:
//
//   - catalog: active configuration, hot-swapped atomically
//   - ratelimit (+ ledger): sliding window decisions over usage records
//   - assign: hash-bucketed variant and flag assignment
//   - bandit: Beta posterior sampling and arm selection
//   - stats: z-test significance analysis
//   - exposure: optional sinks for exposure events
//
// # Usage
//
//	cat, err := catalog.Load("arbiter.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng := engine.New(engine.Config{Catalog: cat})
//	defer eng.Close()
//
//	// Check before acting, record after acting.
//	perm, err := eng.CanPerform(ctx, "reviews.create", userID)
//	if perm.Allowed {
//	    eng.RecordUsage(ctx, "reviews.create", userID)
//	}
//
//	// Deterministic assignment: same user, same variant, no storage.
//	variant, ok := eng.GetVariant("checkout-flow", userID)
//
// Hosts that drive everything from an application config file can assemble
// the engine in one call instead; FromConfig builds the configured ledger
// and exposure sink and starts the catalog watcher when enabled:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("arbiter.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng, err := engine.FromConfig(cfg, nil)
//
// # Consistency
//
// CanPerform and RecordUsage are separate calls with no atomicity between
// them. Two callers can both pass a check for the last remaining slot and
// both record; the window then holds one more record than the limit until
// the oldest ages out. Hosts that need hard admission control must serialize
// check-and-record themselves.
//
// # Thread Safety
//
// All Engine methods are safe for concurrent use. Catalog reloads swap a
// pointer atomically; in-flight calls finish against the catalog they
// started with.
package engine
