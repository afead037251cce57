package config

import "time"

// Default values for configuration fields.
const (
	// Catalog defaults
	DefaultCatalogPath      = "arbiter.catalog.yaml"
	DefaultDebounceInterval = 100 * time.Millisecond

	// Ledger defaults
	DefaultLedgerBackend         = "memory"
	DefaultLedgerScope           = "global"
	DefaultLedgerRetention       = time.Hour
	DefaultLedgerMaxEntries      = 100000
	DefaultLedgerCleanupInterval = time.Minute
	DefaultLedgerSQLitePath      = "data/usage.db"
	DefaultLedgerBusyTimeout     = 5 * time.Second
	DefaultCheckpointInterval    = 5 * time.Minute

	// Exposure defaults
	DefaultExposureBackend     = "memory"
	DefaultExposureBufferSize  = 1000
	DefaultExposureSQLitePath  = "data/exposures.db"
	DefaultExposureBusyTimeout = 5 * time.Second
	DefaultRetentionDays       = 30
	DefaultRetentionSchedule   = "0 3 * * *"

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"

	// Metrics defaults
	DefaultMetricsNamespace = "arbiter"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Catalog defaults
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Catalog.DebounceInterval == 0 {
		cfg.Catalog.DebounceInterval = DefaultDebounceInterval
	}

	// Ledger defaults
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = DefaultLedgerBackend
	}
	if cfg.Ledger.Scope == "" {
		cfg.Ledger.Scope = DefaultLedgerScope
	}
	if cfg.Ledger.Retention == 0 {
		cfg.Ledger.Retention = DefaultLedgerRetention
	}
	if cfg.Ledger.Memory.MaxEntries == 0 {
		cfg.Ledger.Memory.MaxEntries = DefaultLedgerMaxEntries
	}
	if cfg.Ledger.Memory.CleanupInterval == 0 {
		cfg.Ledger.Memory.CleanupInterval = DefaultLedgerCleanupInterval
	}
	if cfg.Ledger.SQLite.Path == "" {
		cfg.Ledger.SQLite.Path = DefaultLedgerSQLitePath
	}
	if cfg.Ledger.SQLite.BusyTimeout == 0 {
		cfg.Ledger.SQLite.BusyTimeout = DefaultLedgerBusyTimeout
	}
	if cfg.Ledger.SQLite.CheckpointInterval == 0 {
		cfg.Ledger.SQLite.CheckpointInterval = DefaultCheckpointInterval
	}

	// Exposure defaults
	if cfg.Exposure.Backend == "" {
		cfg.Exposure.Backend = DefaultExposureBackend
	}
	if cfg.Exposure.BufferSize == 0 {
		cfg.Exposure.BufferSize = DefaultExposureBufferSize
	}
	if cfg.Exposure.SQLite.Path == "" {
		cfg.Exposure.SQLite.Path = DefaultExposureSQLitePath
	}
	if cfg.Exposure.SQLite.BusyTimeout == 0 {
		cfg.Exposure.SQLite.BusyTimeout = DefaultExposureBusyTimeout
	}
	if cfg.Exposure.Retention.Days == 0 {
		cfg.Exposure.Retention.Days = DefaultRetentionDays
	}
	if cfg.Exposure.Retention.Schedule == "" {
		cfg.Exposure.Retention.Schedule = DefaultRetentionSchedule
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a configuration populated entirely with defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
