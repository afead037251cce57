// Package ledger stores timestamped usage records, the only mutable state
// behind rate limiting.
//
// # Overview
//
// Every rate-limit decision is computed from a scan of recent usage records.
// The ledger keeps those records within a retention horizon and answers
// timestamp queries in ascending order. Two implementations are provided:
//
//   - MemoryLedger: in-process slice, the default; data dies with the process
//   - SQLiteLedger: durable single-writer store for counts that must survive
//     restarts
//
// # Retention
//
// Records only matter while a sliding window can still see them. Both
// implementations evict records older than the retention horizon (default
// one hour) opportunistically on writes and from a background sweep.
//
// # Thread Safety
//
// All implementations are safe for concurrent use. Locks are held per call,
// never across them, so two goroutines may interleave between a permission
// check and the usage record that follows it.
package ledger
