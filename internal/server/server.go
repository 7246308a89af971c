package server

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/poseidon/internal/api/middleware"
	"github.com/GriffinCanCode/poseidon/internal/export"
	"github.com/GriffinCanCode/poseidon/internal/http"
	"github.com/GriffinCanCode/poseidon/internal/infrastructure/config"
	"github.com/GriffinCanCode/poseidon/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/poseidon/internal/logging"
	"github.com/GriffinCanCode/poseidon/internal/registry"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *registry.Registry
	logger   *zap.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the logger built from configuration.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new server instance bound to the process-wide registry
func NewServer(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{config: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		logCfg := logging.DefaultConfig()
		if cfg.Logging.Development {
			logCfg = logging.DevelopmentConfig()
		}
		if cfg.Logging.Level != "" {
			logCfg.Level = cfg.Logging.Level
		}

		logger, err := logging.New(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		s.logger = logger
	}

	s.logger.Info("Initializing poseidon server",
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	s.metrics = monitoring.NewMetrics()
	// Init is a no-op when the process-wide registry already exists, so the
	// observer is attached explicitly.
	s.registry = registry.Init(registry.WithLogger(s.logger.Named("registry")))
	s.registry.SetObserver(s.metrics)

	if cfg.Registry.SeedDir != "" {
		seeder := registry.NewSeeder(s.registry, cfg.Registry.SeedDir, cfg.Registry.SeedPattern, s.logger.Named("seeder"))
		result, err := seeder.Seed(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to seed registry: %w", err)
		}
		s.metrics.RecordSeed(result.Loaded, result.Skipped, result.Failed)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = s.routes()

	s.logger.Info("Server initialized successfully", zap.String("registry", s.registry.Identity()))
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(s.logger.Named("http")))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if s.config.RateLimit.Enabled {
		limit := middleware.RateLimitConfig{
			RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
			Burst:             s.config.RateLimit.Burst,
		}
		if s.config.RateLimit.Global {
			router.Use(middleware.GlobalRateLimit(limit))
		} else {
			router.Use(middleware.RateLimit(limit))
		}
	}

	handlers := http.NewHandlers(s.registry, s.metrics, export.Options{
		XMLDeclaration: s.config.Export.XMLDeclaration,
		XMLRoot:        s.config.Export.XMLRoot,
		Indent:         s.config.Export.Indent,
	}, s.logger.Named("handlers"))

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	reg := router.Group("/registry")
	reg.GET("", handlers.ListEntries)
	reg.DELETE("", handlers.Flush)
	reg.GET("/keys", handlers.ListKeys)
	reg.GET("/entries/:key", handlers.GetEntry)
	reg.PUT("/entries/:key", handlers.PutEntry)
	reg.DELETE("/entries/:key", handlers.DeleteEntry)
	reg.GET("/export/:format", handlers.Export)

	return router
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() nethttp.Handler {
	return s.router
}

// Registry returns the registry the server exposes.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &nethttp.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close flushes the registry, releasing closeable values, and syncs the logger.
func (s *Server) Close() error {
	cleared := s.registry.Flush()
	s.logger.Info("Released registry entries", zap.Int("cleared", len(cleared)))

	// stdout/stderr sinks return EINVAL on Sync on some platforms
	_ = s.logger.Sync()
	return nil
}
