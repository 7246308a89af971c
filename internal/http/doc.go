// Package http provides the gin handlers for the registry REST API.
//
// Endpoints:
//   - Health: /health
//   - Registry: GET /registry, GET /registry/keys, DELETE /registry
//   - Entries: GET, PUT and DELETE /registry/entries/:key
//   - Export: GET /registry/export/:format
//
// Error mapping:
//   - missing key: 404
//   - duplicate key: 409
//   - unknown export format or malformed input: 400
//
// Example Usage:
//
//	handlers := http.NewHandlers(reg, metrics, export.DefaultOptions(), logger)
//	router.PUT("/registry/entries/:key", handlers.PutEntry)
package http
