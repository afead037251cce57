package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "arbiter.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfigFile(t, `
catalog:
  path: "catalogs/mobile.yaml"
  watch: true
  debounce_interval: "250ms"

ledger:
  backend: "sqlite"
  scope: "per_user"
  retention: "2h"
  sqlite:
    path: "./test-usage.db"
    busy_timeout: "10s"

exposure:
  enabled: true
  backend: "memory"
  buffer_size: 500

logging:
  level: "debug"
  format: "text"
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Catalog.Path != "catalogs/mobile.yaml" {
		t.Errorf("expected catalog path %q, got %q", "catalogs/mobile.yaml", cfg.Catalog.Path)
	}
	if !cfg.Catalog.Watch {
		t.Error("expected catalog watch to be enabled")
	}
	if cfg.Catalog.DebounceInterval != 250*time.Millisecond {
		t.Errorf("expected debounce interval %v, got %v", 250*time.Millisecond, cfg.Catalog.DebounceInterval)
	}
	if cfg.Ledger.Backend != "sqlite" {
		t.Errorf("expected ledger backend %q, got %q", "sqlite", cfg.Ledger.Backend)
	}
	if cfg.Ledger.Scope != "per_user" {
		t.Errorf("expected ledger scope %q, got %q", "per_user", cfg.Ledger.Scope)
	}
	if cfg.Ledger.Retention != 2*time.Hour {
		t.Errorf("expected retention %v, got %v", 2*time.Hour, cfg.Ledger.Retention)
	}
	if cfg.Ledger.SQLite.Path != "./test-usage.db" {
		t.Errorf("expected sqlite path %q, got %q", "./test-usage.db", cfg.Ledger.SQLite.Path)
	}
	if cfg.Ledger.SQLite.BusyTimeout != 10*time.Second {
		t.Errorf("expected busy timeout %v, got %v", 10*time.Second, cfg.Ledger.SQLite.BusyTimeout)
	}
	if !cfg.Exposure.Enabled {
		t.Error("expected exposure buffering to be enabled")
	}
	if cfg.Exposure.BufferSize != 500 {
		t.Errorf("expected buffer size 500, got %d", cfg.Exposure.BufferSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected logging format %q, got %q", "text", cfg.Logging.Format)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	configPath := writeConfigFile(t, `
catalog:
  path: "arbiter.catalog.yaml"
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Ledger.Backend != DefaultLedgerBackend {
		t.Errorf("expected default ledger backend %q, got %q", DefaultLedgerBackend, cfg.Ledger.Backend)
	}
	if cfg.Ledger.Scope != DefaultLedgerScope {
		t.Errorf("expected default ledger scope %q, got %q", DefaultLedgerScope, cfg.Ledger.Scope)
	}
	if cfg.Ledger.Retention != DefaultLedgerRetention {
		t.Errorf("expected default retention %v, got %v", DefaultLedgerRetention, cfg.Ledger.Retention)
	}
	if cfg.Ledger.Memory.MaxEntries != DefaultLedgerMaxEntries {
		t.Errorf("expected default max entries %d, got %d", DefaultLedgerMaxEntries, cfg.Ledger.Memory.MaxEntries)
	}
	if cfg.Exposure.Backend != DefaultExposureBackend {
		t.Errorf("expected default exposure backend %q, got %q", DefaultExposureBackend, cfg.Exposure.Backend)
	}
	if cfg.Logging.Level != DefaultLoggingLevel {
		t.Errorf("expected default logging level %q, got %q", DefaultLoggingLevel, cfg.Logging.Level)
	}
	if cfg.Logging.Format != DefaultLoggingFormat {
		t.Errorf("expected default logging format %q, got %q", DefaultLoggingFormat, cfg.Logging.Format)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected default metrics namespace %q, got %q", DefaultMetricsNamespace, cfg.Metrics.Namespace)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/arbiter.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "no such file or directory") {
		t.Errorf("expected file not found error, got: %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	configPath := writeConfigFile(t, `
catalog:
  path: "arbiter.catalog.yaml"
  invalid yaml here: [
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	configPath := writeConfigFile(t, `
ledger:
  backend: "redis"

logging:
  level: "trace"
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	fields := make(map[string]bool, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields[fe.Field] = true
	}
	if !fields["ledger.backend"] {
		t.Errorf("expected error for ledger.backend, got %v", verr.Errors)
	}
	if !fields["logging.level"] {
		t.Errorf("expected error for logging.level, got %v", verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	configPath := writeConfigFile(t, `
catalog:
  path: "arbiter.catalog.yaml"

ledger:
  backend: "memory"
  retention: "1h"
`)

	t.Setenv("ARBITER_LEDGER_BACKEND", "sqlite")
	t.Setenv("ARBITER_LEDGER_SQLITE_PATH", "/tmp/override.db")
	t.Setenv("ARBITER_LEDGER_RETENTION", "30m")
	t.Setenv("ARBITER_LEDGER_SCOPE", "per_user")
	t.Setenv("ARBITER_LOGGING_LEVEL", "error")
	t.Setenv("ARBITER_METRICS_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Ledger.Backend != "sqlite" {
		t.Errorf("expected env override backend %q, got %q", "sqlite", cfg.Ledger.Backend)
	}
	if cfg.Ledger.SQLite.Path != "/tmp/override.db" {
		t.Errorf("expected env override sqlite path, got %q", cfg.Ledger.SQLite.Path)
	}
	if cfg.Ledger.Retention != 30*time.Minute {
		t.Errorf("expected env override retention %v, got %v", 30*time.Minute, cfg.Ledger.Retention)
	}
	if cfg.Ledger.Scope != "per_user" {
		t.Errorf("expected env override scope %q, got %q", "per_user", cfg.Ledger.Scope)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env override logging level %q, got %q", "error", cfg.Logging.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected env override to enable metrics")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	configPath := writeConfigFile(t, `
catalog:
  path: "arbiter.catalog.yaml"
`)

	t.Setenv("ARBITER_LEDGER_SCOPE", "per_tenant")

	_, err := LoadConfigWithEnvOverrides(configPath)
	if err == nil {
		t.Fatal("expected validation error after env overrides")
	}
	if !strings.Contains(err.Error(), "ledger.scope") {
		t.Errorf("expected ledger.scope error, got: %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_MalformedValuesIgnored(t *testing.T) {
	configPath := writeConfigFile(t, `
ledger:
  retention: "1h"
`)

	// Unparseable durations and bools leave the file values in place.
	t.Setenv("ARBITER_LEDGER_RETENTION", "not-a-duration")
	t.Setenv("ARBITER_CATALOG_WATCH", "not-a-bool")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Ledger.Retention != time.Hour {
		t.Errorf("expected file retention %v, got %v", time.Hour, cfg.Ledger.Retention)
	}
	if cfg.Catalog.Watch {
		t.Error("expected catalog watch to remain disabled")
	}
}
