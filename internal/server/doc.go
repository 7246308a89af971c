// Package server wires the registry, metrics and HTTP handlers together.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Create metrics and the process-wide registry
//  4. Seed the registry from disk when a seed directory is configured
//  5. Setup HTTP routes and middleware
//  6. Serve until the context is cancelled, then shut down gracefully
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(ctx, cfg)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
