// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/acornweb/identity/internal/identity"
)

// PasswordResetRepository implements identity.PasswordResetRepository using
// PostgreSQL.
type PasswordResetRepository struct {
	pool pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(pool pool) *PasswordResetRepository {
	return &PasswordResetRepository{pool: pool}
}

// Create stores a new password reset request.
func (r *PasswordResetRepository) Create(ctx context.Context, reset *identity.PasswordReset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_resets (id, user_id, reset_token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		reset.ID.String(),
		reset.UserID.String(),
		reset.Token,
		reset.ExpiresAt,
		reset.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("IDENTITY_NOT_FOUND").
				With("user_id", reset.UserID.String()).
				Wrap(identity.ErrNotFound)
		}
		return oops.Code("RESET_CREATE_FAILED").
			With("operation", "insert password_reset").
			With("user_id", reset.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByToken retrieves a reset request by its token.
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*identity.PasswordReset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, reset_token, expires_at, created_at
		FROM password_resets
		WHERE reset_token = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, token)

	reset, err := r.scanReset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("RESET_NOT_FOUND").Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("RESET_GET_FAILED").
			With("operation", "get reset by token").
			Wrap(err)
	}
	return reset, nil
}

// scanReset scans a single row into a PasswordReset.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *PasswordResetRepository) scanReset(row pgx.Row) (*identity.PasswordReset, error) {
	var (
		idStr     string
		userIDStr string
		token     string
		expiresAt time.Time
		createdAt time.Time
	)

	err := row.Scan(&idStr, &userIDStr, &token, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("RESET_SCAN_FAILED").
			With("operation", "scan password_reset").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("RESET_INVALID_ID").
			With("operation", "parse reset id").
			With("id", idStr).
			Wrap(err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("RESET_INVALID_USER_ID").
			With("operation", "parse user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &identity.PasswordReset{
		ID:        id,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}, nil
}

// Compile-time interface check.
var _ identity.PasswordResetRepository = (*PasswordResetRepository)(nil)
