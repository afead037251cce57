// Arbiter is a client-embedded decision engine for rate limiting and
// experimentation.
//
// It answers permission and assignment questions in-process, providing:
//   - Sliding-window rate limiting with burst detection
//   - Adaptive limits derived from observed user behavior
//   - Deterministic variant assignment and feature flags
//   - Thompson-Sampling bandit selection over experiment arms
//   - Two-proportion significance testing for completed experiments
//
// Usage:
//
//	# Validate a catalog file
//	arbiter lint --file arbiter.catalog.yaml
//
//	# Resolve assignments for a user
//	arbiter assign --catalog arbiter.catalog.yaml --user user-42
//
//	# Simulate rate-limit traffic for an operation
//	arbiter check --catalog arbiter.catalog.yaml --operation api_call --count 20
//
//	# Test experiment results for significance
//	arbiter analyze --control 1000:100 --treatment 1000:126
//
//	# Watch a catalog file during authoring
//	arbiter watch --catalog arbiter.catalog.yaml
//
// For complete documentation, see: https://github.com/arbiter-hq/arbiter
package main

func main() {
	Execute()
}
