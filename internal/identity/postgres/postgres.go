// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

// Package postgres provides PostgreSQL implementations of the identity
// repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool is the subset of pgxpool.Pool the repositories use. pgxmock's pool
// satisfies it too, so the SQL paths are unit-testable without a database.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
