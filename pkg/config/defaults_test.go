package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Catalog.Path != DefaultCatalogPath {
		t.Errorf("expected catalog path %q, got %q", DefaultCatalogPath, cfg.Catalog.Path)
	}
	if cfg.Catalog.DebounceInterval != DefaultDebounceInterval {
		t.Errorf("expected debounce interval %v, got %v", DefaultDebounceInterval, cfg.Catalog.DebounceInterval)
	}
	if cfg.Ledger.Backend != DefaultLedgerBackend {
		t.Errorf("expected ledger backend %q, got %q", DefaultLedgerBackend, cfg.Ledger.Backend)
	}
	if cfg.Ledger.Retention != DefaultLedgerRetention {
		t.Errorf("expected retention %v, got %v", DefaultLedgerRetention, cfg.Ledger.Retention)
	}
	if cfg.Ledger.SQLite.CheckpointInterval != DefaultCheckpointInterval {
		t.Errorf("expected checkpoint interval %v, got %v", DefaultCheckpointInterval, cfg.Ledger.SQLite.CheckpointInterval)
	}
	if cfg.Exposure.BufferSize != DefaultExposureBufferSize {
		t.Errorf("expected buffer size %d, got %d", DefaultExposureBufferSize, cfg.Exposure.BufferSize)
	}
	if cfg.Exposure.Retention.Days != DefaultRetentionDays {
		t.Errorf("expected retention days %d, got %d", DefaultRetentionDays, cfg.Exposure.Retention.Days)
	}
	if cfg.Exposure.Retention.Schedule != DefaultRetentionSchedule {
		t.Errorf("expected retention schedule %q, got %q", DefaultRetentionSchedule, cfg.Exposure.Retention.Schedule)
	}
	if cfg.Logging.Level != DefaultLoggingLevel {
		t.Errorf("expected logging level %q, got %q", DefaultLoggingLevel, cfg.Logging.Level)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected metrics namespace %q, got %q", DefaultMetricsNamespace, cfg.Metrics.Namespace)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Catalog.Path = "custom.yaml"
	cfg.Ledger.Backend = "sqlite"
	cfg.Ledger.Retention = 15 * time.Minute
	cfg.Logging.Level = "debug"

	ApplyDefaults(cfg)

	if cfg.Catalog.Path != "custom.yaml" {
		t.Errorf("explicit catalog path overwritten: %q", cfg.Catalog.Path)
	}
	if cfg.Ledger.Backend != "sqlite" {
		t.Errorf("explicit ledger backend overwritten: %q", cfg.Ledger.Backend)
	}
	if cfg.Ledger.Retention != 15*time.Minute {
		t.Errorf("explicit retention overwritten: %v", cfg.Ledger.Retention)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("explicit logging level overwritten: %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg

	ApplyDefaults(cfg)
	if *cfg != first {
		t.Error("ApplyDefaults is not idempotent")
	}
}

func TestDefaultConfig_Validates(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("DefaultConfig should validate, got: %v", err)
	}
}
