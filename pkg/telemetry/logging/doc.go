// Package logging constructs structured loggers for the decision engine.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Configurable log levels (debug, info, warn, error)
//   - Writer injection for tests
//
// Arbiter embeds in host applications, so the package returns a plain
// *slog.Logger rather than a custom wrapper: hosts that already run slog can
// hand the engine their own logger and skip this package entirely.
//
// # Usage
//
//	// Create a logger
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//
//	// Log structured data
//	logger.Info("catalog reloaded",
//	    "path", "arbiter.catalog.yaml",
//	    "experiments", 4,
//	)
//
//	// Derive a component logger
//	limiterLog := logger.With("component", "ratelimit")
//
// # Conventions
//
// Decision paths (permission checks, variant assignment) log at Debug,
// lifecycle events (catalog reloads, sweeps, shutdown) at Info, and
// failures (reload errors, sink errors) at Error.
package logging
