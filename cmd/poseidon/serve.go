package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/poseidon/internal/infrastructure/config"
	"github.com/GriffinCanCode/poseidon/internal/logging"
	"github.com/GriffinCanCode/poseidon/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port string
		host string
		dev  bool
		seed string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry over HTTP",
		Long: `Serve the process-wide registry over HTTP.

Configuration is read from the environment (PORT, HOST, LOG_LEVEL, ...);
flags override it.

Examples:
  poseidon serve
  poseidon serve --port 9000 --dev
  poseidon serve --seed ./fixtures`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadOrDefault()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("seed") {
				cfg.Registry.SeedDir = seed
			}
			var opts []server.Option
			if dev {
				cfg.Logging.Development = true
				opts = append(opts, server.WithLogger(logging.NewDevelopment()))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.NewServer(ctx, cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			defer srv.Close()

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8000", "server port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode (debug level, console logs)")
	cmd.Flags().StringVar(&seed, "seed", "", "directory of documents to seed the registry from")
	return cmd
}
