// Package middleware provides the gin middleware stack for the registry API.
//
// Middleware stack includes:
//   - RequestID: UUID per request, echoed in X-Request-ID
//   - Logger: one zap line per request
//   - CORS: cross-origin resource sharing with configurable origins
//   - RateLimit: per-IP token bucket with idle eviction
//   - GlobalRateLimit: one token bucket shared by all clients
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.GlobalRateLimit(middleware.DefaultRateLimitConfig()))
package middleware
