package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/zgpcy/watchface/internal/clock"
	"github.com/zgpcy/watchface/internal/collector"
	"github.com/zgpcy/watchface/internal/config"
	"github.com/zgpcy/watchface/internal/logger"
	"github.com/zgpcy/watchface/internal/server"
	"github.com/zgpcy/watchface/internal/version"
)

const (
	// DefaultShutdownTimeout is the maximum time to wait for graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve live clock faces, hand angles and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), getConfig(cmd))
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Watch face starting", "version", version.Version)

	log.Info("Configuration loaded successfully",
		"http_port", cfg.HTTPPort,
		"tick_interval_ms", cfg.TickInterval,
		"smooth_seconds", cfg.SmoothSeconds,
		"timezone", cfg.Timezone,
		"clock_sizes", cfg.ClockSizes,
		"subscriber_buffer", cfg.SubscriberBuffer)

	sampler := clock.NewSampler(clock.RealClock{}, cfg.Location())

	// Create face collector
	log.Info("Creating Prometheus collector")
	faces := collector.NewFaceCollector(sampler, cfg, log.WithFields("component", "collector"))

	reg := prometheus.NewRegistry()
	if err := reg.Register(faces); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}
	log.Info("Collector registered with Prometheus")

	// Register Go runtime metrics (memory, goroutines, GC stats)
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		log.Warn("Failed to register Go collector", "error", err)
	} else {
		log.Info("Go runtime metrics registered")
	}

	// Register process metrics (CPU, memory, file descriptors)
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		log.Warn("Failed to register process collector", "error", err)
	} else {
		log.Info("Process metrics registered")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Starting clock ticks", "interval", cfg.TickDuration().String())
	faces.StartTicking(ctx)

	log.Info("Creating HTTP server", "port", cfg.HTTPPort)
	srv := server.NewServer(cfg, faces, log.WithFields("component", "server"), reg)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("Received shutdown signal, starting graceful shutdown", "signal", sig.String())

		// Stop ticking
		cancel()

		// Shutdown server with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
