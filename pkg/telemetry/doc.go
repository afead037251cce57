// Package telemetry groups observability helpers for the decision engine.
//
// # Overview
//
// Arbiter embeds in host applications, so observability stays thin: the
// logging subpackage constructs structured slog loggers from configuration,
// and decision metrics are registered by pkg/engine against a
// caller-supplied Prometheus registerer.
//
// # Components
//
//   - logging: structured logger construction (level, format, writer)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  cfg.Logging.Level,
//	    Format: cfg.Logging.Format,
//	})
//	if err != nil {
//	    return err
//	}
//	logger.Info("engine starting")
package telemetry
