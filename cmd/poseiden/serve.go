// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/poseiden/backoffice/internal/config"
	"github.com/poseiden/backoffice/internal/logging"
	"github.com/poseiden/backoffice/internal/observability"
	"github.com/poseiden/backoffice/internal/web"
)

// shutdownTimeout bounds graceful shutdown of each server.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the back-office web server",
		Long: `Start the back-office web server, plus the metrics and health endpoints
when --metrics-addr is set. Stops gracefully on SIGINT or SIGTERM.`,
		RunE: runServe,
	}
	config.RegisterFlags(cmd.Flags())
	cmd.Flags().Bool("secure-cookie", false, "mark the session cookie Secure (HTTPS deployments)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	secure, err := cmd.Flags().GetBool("secure-cookie")
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "secure-cookie").Wrap(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := logging.SetupTracing()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer provider shutdown failed", "error", err)
		}
	}()

	return serve(ctx, cfg, serveOptions{secureCookie: secure, logger: logger, started: func(addr string) {
		cmd.Printf("Poseiden listening on %s\n", addr)
	}})
}

type serveOptions struct {
	secureCookie bool
	logger       *slog.Logger
	// started is called with the bound web address once serving. Optional.
	started func(addr string)
}

// serve runs the web server, and the observability server when configured,
// until ctx is cancelled or either server fails. A server failure is
// returned; cancellation of ctx is a clean shutdown.
func serve(ctx context.Context, cfg *config.Config, opts serveOptions) error {
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(observability.ServerConfig{Addr: cfg.Metrics.Addr, Ready: b.ready, Logger: logger})
		metrics = obsServer.Metrics()
	}

	svcs, err := newServices(b, metrics, cfg.Session.TTL, logger)
	if err != nil {
		return err
	}
	webOpts := svcs.webOptions(cfg, metrics, logger)
	webOpts.SecureCookie = opts.secureCookie
	webServer, err := web.NewServer(webOpts)
	if err != nil {
		return err
	}

	if obsServer != nil {
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("SERVE_FAILED").With("server", "observability").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		defer stopServer(logger, "observability", obsServer.Stop)
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	webErrCh, err := webServer.Start(cfg.HTTP.Addr)
	if err != nil {
		return oops.Code("SERVE_FAILED").With("server", "web").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")
	defer stopServer(logger, "web", webServer.Stop)

	if opts.started != nil {
		opts.started(webServer.Addr())
	}
	logger.Info("poseiden ready",
		"http_addr", webServer.Addr(),
		"storage", cfg.Storage,
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return serveResult(ctx)
}

// serveResult reports why a done ctx stopped serve: the server failure
// recorded by monitorServerErrors, or nil for an ordinary cancellation.
func serveResult(ctx context.Context) error {
	cause := context.Cause(ctx)
	if cause == nil || errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return nil
	}
	return cause
}

func stopServer(logger *slog.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels ctx with a SERVE_FAILED cause when a server
// reports an error. It returns when errCh yields or closes, or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelCauseFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel(oops.Code("SERVE_FAILED").With("server", serverName).Wrap(err))
		}
	case <-ctx.Done():
	}
}
