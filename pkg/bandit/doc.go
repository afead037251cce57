// Package bandit provides Thompson Sampling for multi-armed variant selection.
//
// # Overview
//
// The bandit package samples each arm's Beta posterior and picks the arm with
// the largest draw, shifting traffic toward better-performing variants while
// still exploring the others. It supports:
//
//   - Beta(successes+1, failures+1) posteriors per arm
//   - Gamma-based Beta sampling (Marsaglia-Tsang), no lookup tables
//   - Deterministic replay through an injected random source
//
// # Usage
//
//	selector := bandit.NewSelector(nil)
//	arm := selector.Select([]bandit.Arm{
//	    {ID: "checkout-a", Successes: 120, Failures: 880},
//	    {ID: "checkout-b", Successes: 160, Failures: 840},
//	})
//	fmt.Println("serving", arm.ID)
//
// # Thread Safety
//
// Sampler and Selector are NOT safe for concurrent use: math/rand.Rand
// sources are single-goroutine. Create one per goroutine or serialize calls.
package bandit
