package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/alfredjeanlab/wledrelay/internal/config"
	"github.com/alfredjeanlab/wledrelay/internal/events"
	"github.com/alfredjeanlab/wledrelay/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the effect relay server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create a relay client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := cfg.NewLogger()
		slog.SetDefault(logger)

		ctx := context.Background()

		// Open the backing store and register it under the binding name.
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		bindings := newBindings(cfg, store)
		if store == nil {
			logger.Warn("no kv backend configured; effect requests will fail",
				"binding", cfg.KVBinding)
		} else {
			logger.Info("kv binding registered", "binding", cfg.KVBinding, "backend", cfg.KVBackend)
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				bindings.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = events.NoopPublisher{}
			logger.Info("events disabled (WLED_NATS_URL not set)")
		}

		relay := server.NewRelayServer(bindings, cfg.KVBinding, publisher)

		// Start gRPC health listener when configured.
		var (
			grpcServer *grpc.Server
			healthSrv  *health.Server
		)
		if cfg.GRPCAddr != "" {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				publisher.Close()
				bindings.Close()
				return err
			}
			grpcServer, healthSrv = server.NewGRPCServer(relay)
			go func() {
				logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server error", "err", err)
				}
			}()
		}

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: relay.NewHTTPHandler(),
		}
		serveErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serveErr <- err
			}
		}()

		logger.Info("wled relay started",
			"http_addr", cfg.HTTPAddr,
			"grpc_addr", cfg.GRPCAddr,
			"binding", cfg.KVBinding,
		)

		// Wait for SIGINT, SIGTERM, or a listener failure.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		var runErr error
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case runErr = <-serveErr:
			logger.Error("HTTP server error", "err", runErr)
		}

		// Graceful shutdown.
		if grpcServer != nil {
			healthSrv.Shutdown()
			grpcServer.GracefulStop()
			logger.Info("gRPC server stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := bindings.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return runErr
	},
}
