package config

import "time"

// Config is the root configuration structure for Arbiter.
// It contains all configuration sections for the decision catalog, the usage
// ledger, exposure buffering, logging, and metrics.
type Config struct {
	// Catalog locates the decision catalog (rate limits, experiments,
	// feature flags) and controls hot reloading.
	Catalog CatalogConfig `yaml:"catalog"`

	// Ledger configures storage for usage records backing rate-limit
	// decisions.
	Ledger LedgerConfig `yaml:"ledger"`

	// Exposure configures local buffering of experiment exposure events.
	Exposure ExposureConfig `yaml:"exposure"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics collection.
	Metrics MetricsConfig `yaml:"metrics"`
}

// CatalogConfig locates and watches the decision catalog file.
type CatalogConfig struct {
	// Path is the catalog YAML file the engine loads its rate limits,
	// experiments, and feature flags from.
	// Default: "arbiter.catalog.yaml"
	Path string `yaml:"path"`

	// Watch enables hot reloading: the catalog file is watched and
	// successful reloads are swapped in atomically. A reload that fails
	// validation keeps the previous catalog active.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period required after a file change
	// before a reload fires. Editors and deploy tools often touch a file
	// several times per save.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// LedgerConfig configures the usage ledger backend.
type LedgerConfig struct {
	// Backend specifies the ledger backend to use.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Scope selects whose records a window scan counts.
	// Options: "global" (one shared pool per operation), "per_user"
	// (each user gets an independent allowance).
	// Default: "global"
	Scope string `yaml:"scope"`

	// Retention is how long usage records are kept. No sliding window
	// longer than this can be answered accurately.
	// Default: 1h
	Retention time.Duration `yaml:"retention"`

	// Memory contains memory backend configuration.
	Memory MemoryLedgerConfig `yaml:"memory"`

	// SQLite contains SQLite backend configuration.
	SQLite SQLiteLedgerConfig `yaml:"sqlite"`
}

// MemoryLedgerConfig contains memory ledger configuration.
type MemoryLedgerConfig struct {
	// MaxEntries is the maximum number of usage records to hold. The
	// oldest records are evicted when the cap is reached.
	// Default: 100000
	MaxEntries int `yaml:"max_entries"`

	// CleanupInterval is how often the background sweep evicts records
	// older than the retention horizon.
	// Default: 1m
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// SQLiteLedgerConfig contains SQLite ledger configuration.
type SQLiteLedgerConfig struct {
	// Path is the path to the SQLite database file.
	// Default: "data/usage.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for database locks before failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// CheckpointInterval is how often to checkpoint the write-ahead log.
	// Default: 5m
	CheckpointInterval time.Duration `yaml:"checkpoint_interval"`
}

// ExposureConfig configures exposure event buffering.
type ExposureConfig struct {
	// Enabled controls whether exposure events from TrackExposure are
	// buffered in a sink. When false, events are constructed and returned
	// to the caller but not stored.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the sink backend to use.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// BufferSize is the capacity of the memory sink. At capacity the
	// oldest buffered event is dropped.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// SQLite contains SQLite journal configuration.
	SQLite ExposureSQLiteConfig `yaml:"sqlite"`

	// Retention configures pruning of journaled events.
	Retention ExposureRetentionConfig `yaml:"retention"`
}

// ExposureSQLiteConfig contains SQLite journal configuration.
type ExposureSQLiteConfig struct {
	// Path is the path to the SQLite database file.
	// Default: "data/exposures.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for database locks before failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ExposureRetentionConfig configures journal retention.
type ExposureRetentionConfig struct {
	// Days is the number of days to retain exposure events.
	// 0 disables age-based pruning.
	// Default: 30
	Days int `yaml:"days"`

	// Schedule is a cron expression for scheduled pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`

	// MaxRecords caps the number of journaled events; the oldest are
	// pruned first. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line information in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the engine registers and records metrics.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the prefix for every metric name.
	// Default: "arbiter"
	Namespace string `yaml:"namespace"`
}
