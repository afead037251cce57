package engine

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/config"
	"arbiter-hq/arbiter/pkg/exposure"
	"arbiter-hq/arbiter/pkg/ratelimit"
	"arbiter-hq/arbiter/pkg/ratelimit/ledger"
	"arbiter-hq/arbiter/pkg/telemetry/logging"
)

// FromConfig assembles a ready-to-use Engine from application configuration:
// it loads the catalog file, builds the configured ledger and exposure sink,
// constructs the logger, and registers metrics when enabled. With
// cfg.Catalog.Watch set it also starts a catalog watcher, and a journaled
// sink with a retention schedule gets a pruner. Everything FromConfig starts
// is released by Engine.Close.
//
// registerer receives the engine metrics when cfg.Metrics.Enabled is set;
// nil falls back to the Prometheus default registerer.
//
// Hosts that construct components themselves (a shared logger, a custom
// ledger, test clocks) should use New directly.
func FromConfig(cfg *config.Config, registerer prometheus.Registerer) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	lg, err := buildLedger(&cfg.Ledger)
	if err != nil {
		return nil, err
	}

	sink, pruner, err := buildSink(&cfg.Exposure)
	if err != nil {
		lg.Close()
		return nil, err
	}

	var metrics *Metrics
	if cfg.Metrics.Enabled {
		metrics = NewMetrics(cfg.Metrics.Namespace, registerer)
	}

	eng := New(Config{
		Catalog: cat,
		Ledger:  lg,
		Scope:   ratelimit.Scope(cfg.Ledger.Scope),
		Sink:    sink,
		Metrics: metrics,
		Logger:  logger,
	})

	// Background helpers started below share one lifecycle context so that
	// Close unblocks their goroutines.
	ctx, cancel := context.WithCancel(context.Background())
	eng.onClose = append(eng.onClose, cancel)

	if pruner != nil {
		if err := pruner.Start(ctx); err != nil {
			eng.Close()
			return nil, fmt.Errorf("failed to start exposure retention: %w", err)
		}
		eng.onClose = append(eng.onClose, pruner.Stop)
	}

	if cfg.Catalog.Watch {
		watcher, err := catalog.NewWatcher(eng.Store(), catalog.WatcherConfig{
			Path:             cfg.Catalog.Path,
			DebounceInterval: cfg.Catalog.DebounceInterval,
		}, logger)
		if err != nil {
			eng.Close()
			return nil, err
		}

		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("catalog watcher exited", "error", err)
			}
		}()
		eng.onClose = append(eng.onClose, func() { _ = watcher.Stop() })
	}

	return eng, nil
}

// buildLedger constructs the usage ledger named by the configuration.
func buildLedger(cfg *config.LedgerConfig) (ledger.Ledger, error) {
	switch cfg.Backend {
	case "sqlite":
		return ledger.NewSQLiteLedgerWithConfig(ledger.SQLiteLedgerConfig{
			Path:               cfg.SQLite.Path,
			Retention:          cfg.Retention,
			BusyTimeout:        cfg.SQLite.BusyTimeout,
			CheckpointInterval: cfg.SQLite.CheckpointInterval,
		})
	case "memory", "":
		return ledger.NewMemoryLedgerWithConfig(ledger.MemoryLedgerConfig{
			Retention:       cfg.Retention,
			MaxEntries:      cfg.Memory.MaxEntries,
			CleanupInterval: cfg.Memory.CleanupInterval,
		}), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

// buildSink constructs the exposure sink named by the configuration, plus a
// retention pruner when the sink is a journal with a prune schedule. A
// disabled exposure section yields a nil sink: events are still returned to
// the caller, just not buffered.
func buildSink(cfg *config.ExposureConfig) (exposure.Sink, *exposure.Pruner, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	switch cfg.Backend {
	case "sqlite":
		jc := exposure.DefaultJournalConfig()
		jc.Path = cfg.SQLite.Path
		if cfg.SQLite.BusyTimeout > 0 {
			jc.BusyTimeout = cfg.SQLite.BusyTimeout
		}

		journal, err := exposure.NewJournal(jc)
		if err != nil {
			return nil, nil, err
		}

		var pruner *exposure.Pruner
		if cfg.Retention.Schedule != "" {
			pruner = exposure.NewPruner(journal, &exposure.PrunerConfig{
				RetentionDays: cfg.Retention.Days,
				Schedule:      cfg.Retention.Schedule,
				MaxRecords:    cfg.Retention.MaxRecords,
			})
		}
		return journal, pruner, nil
	case "memory", "":
		return exposure.NewMemorySink(exposure.MemorySinkConfig{Capacity: cfg.BufferSize}), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown exposure backend %q", cfg.Backend)
	}
}
