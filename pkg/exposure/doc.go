// Package exposure provides sinks for experiment exposure events.
//
// # Sinks
//
// The exposure package defines the Sink interface and provides two
// implementations:
//
//   - MemorySink: Bounded in-memory buffer the host application drains
//   - Journal: Embedded SQLite journal for durable local buffering
//
// Both sinks buffer locally. Neither transports events anywhere; the host
// decides when to drain a sink and where the events go.
//
// # Memory Sink
//
// The memory sink holds events in a fixed-capacity ring. When the buffer is
// full the oldest event is dropped and a counter is incremented, so a host
// that stops draining loses history rather than memory:
//
//	sink := exposure.NewMemorySink(exposure.MemorySinkConfig{Capacity: 1000})
//	defer sink.Close()
//
//	sink.Record(ctx, event)
//
//	events := sink.Drain()
//	// ship events to wherever analytics lives
//
// # SQLite Journal
//
// The journal persists events to a local SQLite database with:
//
//   - WAL mode for concurrent reads/writes
//   - Busy timeout for handling locks
//   - Indexes on experiment, user, and recorded time
//   - Schema version tracking for future migrations
//
//	journal, err := exposure.NewJournal(&exposure.JournalConfig{
//	    Path: "data/exposures.db",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer journal.Close()
//
//	journal.Record(ctx, event)
//
//	events, err := journal.Query(ctx, &exposure.Filter{
//	    ExperimentID: "checkout-flow",
//	    Limit:        100,
//	})
//
// # Retention
//
// The Pruner enforces retention on a journal, deleting events older than a
// configured number of days and optionally capping the total record count.
// It can run once on demand or on a cron schedule:
//
//	pruner := exposure.NewPruner(journal, &exposure.PrunerConfig{
//	    RetentionDays: 30,
//	    Schedule:      "0 3 * * *",
//	})
//	pruner.Start(ctx)
//	defer pruner.Stop()
//
// # Thread Safety
//
// All sinks are safe for concurrent use. Record can be called from multiple
// goroutines, and Drain or Query can run concurrently with Record.
package exposure
