// Package logging builds the zap loggers used across poseidon.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output on stderr
//
// Bags and registries take a *zap.Logger and default to a no-op logger, so
// only the server and CLI construct loggers here.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "debug"})
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
