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

// EmailVerificationRepository implements identity.EmailVerificationRepository
// using PostgreSQL.
type EmailVerificationRepository struct {
	pool pool
}

// NewEmailVerificationRepository creates a new EmailVerificationRepository.
func NewEmailVerificationRepository(pool pool) *EmailVerificationRepository {
	return &EmailVerificationRepository{pool: pool}
}

// Create stores a new verification code. Old codes for the same user are
// left untouched; each expires on its own clock.
func (r *EmailVerificationRepository) Create(ctx context.Context, verification *identity.EmailVerification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO email_verifications (id, user_id, verification_code, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		verification.ID.String(),
		verification.UserID.String(),
		verification.Code,
		verification.ExpiresAt,
		verification.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("IDENTITY_NOT_FOUND").
				With("user_id", verification.UserID.String()).
				Wrap(identity.ErrNotFound)
		}
		return oops.Code("VERIFICATION_CREATE_FAILED").
			With("operation", "insert email_verification").
			With("user_id", verification.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByUserAndCode retrieves the verification matching both user and code.
func (r *EmailVerificationRepository) GetByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*identity.EmailVerification, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, verification_code, expires_at, created_at
		FROM email_verifications
		WHERE user_id = $1 AND verification_code = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID.String(), code)

	verification, err := r.scanVerification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("VERIFICATION_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("VERIFICATION_GET_FAILED").
			With("operation", "get verification by user and code").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return verification, nil
}

// scanVerification scans a single row into an EmailVerification.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *EmailVerificationRepository) scanVerification(row pgx.Row) (*identity.EmailVerification, error) {
	var (
		idStr     string
		userIDStr string
		code      string
		expiresAt time.Time
		createdAt time.Time
	)

	err := row.Scan(&idStr, &userIDStr, &code, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("VERIFICATION_SCAN_FAILED").
			With("operation", "scan email_verification").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("VERIFICATION_INVALID_ID").
			With("operation", "parse verification id").
			With("id", idStr).
			Wrap(err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("VERIFICATION_INVALID_USER_ID").
			With("operation", "parse user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &identity.EmailVerification{
		ID:        id,
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}, nil
}

// Compile-time interface check.
var _ identity.EmailVerificationRepository = (*EmailVerificationRepository)(nil)
