package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ARBITER_SECTION_FIELD (e.g., ARBITER_LEDGER_BACKEND).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format ARBITER_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Catalog overrides
	if val := os.Getenv("ARBITER_CATALOG_PATH"); val != "" {
		cfg.Catalog.Path = val
	}
	if val := os.Getenv("ARBITER_CATALOG_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Watch = b
		}
	}
	if val := os.Getenv("ARBITER_CATALOG_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Catalog.DebounceInterval = d
		}
	}

	// Ledger overrides
	if val := os.Getenv("ARBITER_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := os.Getenv("ARBITER_LEDGER_SCOPE"); val != "" {
		cfg.Ledger.Scope = val
	}
	if val := os.Getenv("ARBITER_LEDGER_RETENTION"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Ledger.Retention = d
		}
	}
	if val := os.Getenv("ARBITER_LEDGER_MAX_ENTRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Ledger.Memory.MaxEntries = i
		}
	}
	if val := os.Getenv("ARBITER_LEDGER_CLEANUP_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Ledger.Memory.CleanupInterval = d
		}
	}
	if val := os.Getenv("ARBITER_LEDGER_SQLITE_PATH"); val != "" {
		cfg.Ledger.SQLite.Path = val
	}
	if val := os.Getenv("ARBITER_LEDGER_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Ledger.SQLite.BusyTimeout = d
		}
	}
	if val := os.Getenv("ARBITER_LEDGER_SQLITE_CHECKPOINT_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Ledger.SQLite.CheckpointInterval = d
		}
	}

	// Exposure overrides
	if val := os.Getenv("ARBITER_EXPOSURE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Exposure.Enabled = b
		}
	}
	if val := os.Getenv("ARBITER_EXPOSURE_BACKEND"); val != "" {
		cfg.Exposure.Backend = val
	}
	if val := os.Getenv("ARBITER_EXPOSURE_BUFFER_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Exposure.BufferSize = i
		}
	}
	if val := os.Getenv("ARBITER_EXPOSURE_SQLITE_PATH"); val != "" {
		cfg.Exposure.SQLite.Path = val
	}
	if val := os.Getenv("ARBITER_EXPOSURE_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Exposure.Retention.Days = i
		}
	}
	if val := os.Getenv("ARBITER_EXPOSURE_RETENTION_SCHEDULE"); val != "" {
		cfg.Exposure.Retention.Schedule = val
	}
	if val := os.Getenv("ARBITER_EXPOSURE_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Exposure.Retention.MaxRecords = i
		}
	}

	// Logging overrides
	if val := os.Getenv("ARBITER_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("ARBITER_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("ARBITER_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.AddSource = b
		}
	}

	// Metrics overrides
	if val := os.Getenv("ARBITER_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ARBITER_METRICS_NAMESPACE"); val != "" {
		cfg.Metrics.Namespace = val
	}
}
