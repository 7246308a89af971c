/*
Package monitoring provides Prometheus metrics for the registry and its HTTP
surface.

# Overview

Each Metrics value owns a private Prometheus registry. It implements the
registry.Observer interface so registry operations and size are tracked, and
it records HTTP traffic, export rendering and startup seeding.

# Usage

	metrics := monitoring.NewMetrics()
	reg := registry.Init(registry.WithObserver(metrics))

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "json")
	// ... render ...
	timer.Stop("ok")
*/
package monitoring
