package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/sitepulse"
	"github.com/jpalmerr/sitepulse/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// serveCmd starts the SitePulse monitor and dashboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the monitor and dashboard server",
	Long: `Start the SitePulse monitor and dashboard server.

The server will:
  - Load configuration from the specified YAML file
  - Start probing all configured endpoints
  - Serve the dashboard UI, REST API, event streams and /metrics on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  sitepulse serve -c config.yaml
  sitepulse serve --config /etc/sitepulse/config.yaml --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"endpoints", len(cfg.Endpoints),
		"grids", len(cfg.Grids),
	)

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build seed urls: %w", err)
	}
	opts = append(opts, sitepulse.WithLogger(logger))

	m, err := sitepulse.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"poll_interval", cfg.PollInterval.Duration().String(),
		"probe_timeout", cfg.ProbeTimeout.Duration().String(),
	)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- m.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
