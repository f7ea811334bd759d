// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/memberchat/memberchat/internal/auth"
	"github.com/memberchat/memberchat/internal/chat"
	"github.com/memberchat/memberchat/internal/config"
	"github.com/memberchat/memberchat/internal/control"
	"github.com/memberchat/memberchat/internal/httpapi"
	"github.com/memberchat/memberchat/internal/logging"
	"github.com/memberchat/memberchat/internal/observability"
)

// newServeCmd creates the serve subcommand with all flags configured.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the memberchat HTTP server",
		Long: `Start the HTTP server that handles member registration, login,
profiles, and the group chat log. All state is held in memory and is
lost on restart.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, configFile, cmd.Flags())
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

// runServe starts the server processes and blocks until shutdown.
func runServe(ctx context.Context, cmd *cobra.Command, configPath string, flags *pflag.FlagSet) error {
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetDefault("memberchat", version, cfg.LogFormat)

	slog.Info("starting memberchat",
		"listen_addr", cfg.ListenAddr,
		"log_format", cfg.LogFormat,
		"token_ttl", cfg.TokenTTL(),
		"message_cap", cfg.MessageCap,
	)

	directory := auth.NewDirectory(auth.NewSaltedHasher())
	codec := auth.NewCodec(cfg.TokenTTL())
	chatLog := chat.NewLog(cfg.MessageCap)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Control socket lets the status subcommand and operators query
	// and stop the running process.
	var controlServer *control.Server
	if cfg.Control {
		controlServer = control.NewServer(
			func() { cancel() },
			func() control.Stats {
				return control.Stats{
					Members:  directory.Len(),
					Messages: chatLog.Len(),
				}
			},
		)
		if err := controlServer.Start(); err != nil {
			return fmt.Errorf("failed to start control socket: %w", err)
		}
		slog.Info("control socket started", "path", control.SocketPath())
	}

	// Readiness flips on once the API listener is bound.
	var apiReady atomic.Bool

	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, apiReady.Load)
		metrics = obsServer.Metrics()

		obsErrChan, err := obsServer.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	handler, err := httpapi.NewHandler(httpapi.HandlerDeps{
		Directory:   directory,
		Codec:       codec,
		Log:         chatLog,
		RecentLimit: cfg.RecentLimit,
		Metrics:     metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to build api handler: %w", err)
	}

	apiServer, err := httpapi.NewServer(httpapi.ServerConfig{
		Addr:           cfg.ListenAddr,
		AllowedOrigins: cfg.AllowedOrigins,
		Handler:        handler,
	})
	if err != nil {
		return fmt.Errorf("failed to build api server: %w", err)
	}

	apiErrChan, err := apiServer.Start()
	if err != nil {
		return fmt.Errorf("failed to start api server: %w", err)
	}
	apiReady.Store(true)
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("memberchat server started")
	slog.Info("memberchat ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")
	apiReady.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping api server", "error", err)
	}

	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	if controlServer != nil {
		if err := controlServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping control socket", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// This ensures that server failures trigger graceful shutdown of the entire process.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
