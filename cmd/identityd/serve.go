// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/acornweb/identity/internal/config"
	"github.com/acornweb/identity/internal/identity"
	identitypg "github.com/acornweb/identity/internal/identity/postgres"
	"github.com/acornweb/identity/internal/logging"
	"github.com/acornweb/identity/internal/observability"
	"github.com/acornweb/identity/pkg/errutil"
)

const (
	shutdownTimeout  = 10 * time.Second
	readinessTimeout = 2 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the identity service",
		Long: `Start the identity service: connect to PostgreSQL, apply pending
migrations, and expose health and metrics endpoints while serving
identity operations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, &ServeDeps{})
		},
	}

	cmd.Flags().String("observability.addr", "", "health/metrics listen address (overrides config)")

	return cmd
}

// app holds the assembled identity service. The service and resolver are
// what the surrounding web layer consumes; the serve command owns their
// lifecycle.
type app struct {
	pool     Pool
	service  *identity.InstrumentedService
	resolver *identity.SessionResolver
}

// ready reports whether the database is reachable.
func (a *app) ready() bool {
	ctx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
	defer cancel()
	return a.pool.Ping(ctx) == nil
}

// buildApp wires the repositories, hasher, service, and session resolver
// over the pool, registering operation metrics with reg.
func buildApp(pool Pool, reg prometheus.Registerer, logger *slog.Logger) (*app, error) {
	users := identitypg.NewUserRepository(pool)
	verifications := identitypg.NewEmailVerificationRepository(pool)
	resets := identitypg.NewPasswordResetRepository(pool)

	svc, err := identity.NewServiceWithLogger(users, verifications, resets, identity.NewBcryptHasher(), logger)
	if err != nil {
		return nil, err
	}

	resolver, err := identity.NewSessionResolverWithLogger(users, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		pool:     pool,
		service:  identity.NewInstrumentedService(svc, reg),
		resolver: resolver,
	}, nil
}

func runServe(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	deps.applyDefaults()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("identityd", version, cfg.Log.Format)
	logger := slog.Default()

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		errutil.LogError(logger, "database connection failed", err)
		return err
	}
	defer pool.Close()

	migrator, err := deps.MigratorFactory(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		errutil.LogError(logger, "migration failed", err)
		return err
	}
	if err := migrator.Close(); err != nil {
		errutil.LogError(logger, "migrator close failed", err)
	}

	var application *app
	obsServer := deps.ObservabilityServerFactory(cfg.Observability.Addr, func() bool {
		return application.ready()
	})

	application, err = buildApp(pool, obsServer.Registry(), logger)
	if err != nil {
		return err
	}
	obsServer.Registry().MustRegister(observability.NewPoolStatsCollector(pool))

	obsErrCh, err := obsServer.Start()
	if err != nil {
		return err
	}

	logger.Info("identityd started",
		"observability_addr", obsServer.Addr(),
		"version", version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case serveErr, ok := <-obsErrCh:
		if ok && serveErr != nil {
			errutil.LogError(logger, "observability server failed", serveErr)
		}
	case <-ctx.Done():
		logger.Info("shutting down", "reason", "context cancelled")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := obsServer.Stop(stopCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("identityd stopped")
	return nil
}
