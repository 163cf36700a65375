// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

// Package store provides the PostgreSQL connection pool and schema
// migrations for the identity subsystem.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry configuration. The pool itself is lazy; the ping here
// fails fast on a bad DSN while riding out a database that is still
// starting up.
const (
	connectMaxRetries  = 5
	connectBaseBackoff = 200 * time.Millisecond
)

// Connect builds a pgxpool.Pool for dsn and verifies connectivity with a
// retried ping. The returned pool is the module's only shared mutable
// state; all repositories borrow connections from it per operation.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectMaxRetries, retry.NewExponential(connectBaseBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_PING_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return pool, nil
}
