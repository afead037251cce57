// Package assign provides deterministic variant assignment and feature flag
// evaluation.
//
// # Overview
//
// Assignment is a pure function of identifiers: the same user always lands in
// the same variant of the same experiment, with no coordination and no stored
// assignment state. The package supports:
//
//   - Stable FNV-1a bucketing of identifier strings into [0, 100)
//   - Audience matching (all, percentage, explicit user lists)
//   - Weighted variant assignment with control fallback
//   - Feature flag gating by rollout percentage or target list
//   - Exposure event construction for offline analysis
//
// # Usage
//
//	assigner := assign.NewAssigner()
//	variant := assigner.GetVariant("user-42", experiment)
//	event := assigner.TrackExposure(experiment.ID, variant.ID, "user-42")
//
// # Thread Safety
//
// Assigner, Matcher, and Hasher hold no mutable state and are safe for
// concurrent use.
package assign
