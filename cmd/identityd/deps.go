// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acornweb/identity/internal/observability"
	"github.com/acornweb/identity/internal/store"
)

// Pool is the subset of pgxpool.Pool the serve command uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Stat() *pgxpool.Stat
	Close()
}

// Migrator is the subset of store.Migrator the serve command uses.
type Migrator interface {
	Up() error
	Close() error
}

// ObservabilityServer is the subset of observability.Server the serve
// command uses.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Registry() *prometheus.Registry
}

// ServeDeps contains injectable dependencies for the serve command.
// All nil fields use their default implementations.
type ServeDeps struct {
	// PoolFactory builds the database pool. Default: store.Connect.
	PoolFactory func(ctx context.Context, dsn string) (Pool, error)

	// MigratorFactory builds the schema migrator. Default: store.NewMigrator.
	MigratorFactory func(databaseURL string) (Migrator, error)

	// ObservabilityServerFactory builds the health/metrics server.
	// Default: observability.NewServer.
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker) ObservabilityServer
}

func (d *ServeDeps) applyDefaults() {
	if d.PoolFactory == nil {
		d.PoolFactory = func(ctx context.Context, dsn string) (Pool, error) {
			return store.Connect(ctx, dsn)
		}
	}
	if d.MigratorFactory == nil {
		d.MigratorFactory = func(databaseURL string) (Migrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if d.ObservabilityServerFactory == nil {
		d.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
}
