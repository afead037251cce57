// Package config provides configuration management for Arbiter.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("arbiter.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("arbiter.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention ARBITER_SECTION_FIELD.
// For example:
//
//   - ARBITER_CATALOG_PATH overrides catalog.path
//   - ARBITER_LEDGER_BACKEND overrides ledger.backend
//   - ARBITER_LOGGING_LEVEL overrides logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - ledger.backend: unknown backend "redis" (must be one of: memory, sqlite)
//	  - logging.level: unknown level "trace" (must be one of: debug, info, warn, error)
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	catalog:
//	  path: "arbiter.catalog.yaml"
//	  watch: true
//
//	ledger:
//	  backend: "memory"
//	  scope: "global"
//	  retention: 1h
//
//	exposure:
//	  enabled: true
//	  backend: "memory"
//	  buffer_size: 1000
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// Note that this file configures the engine's machinery; the decision
// catalog itself (rate limits, experiments, feature flags) lives in the
// separate file named by catalog.path and is owned by pkg/catalog.
//
// Config values are plain data: load once, pass explicitly to the
// components that need them. There is no package-level singleton.
package config
