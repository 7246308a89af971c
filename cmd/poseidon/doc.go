// Command poseidon serves a process-wide key/value registry over HTTP and
// converts key/value documents between formats.
//
// Usage:
//
//	# Serve on :8000 with production logging
//	poseidon serve
//
//	# Development mode (colored logs, debug level), seeded from disk
//	poseidon serve --dev --seed ./fixtures
//
//	# Render a YAML document as CSV
//	poseidon export config.yaml --format csv
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
