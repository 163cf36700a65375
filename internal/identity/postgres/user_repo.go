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
	"github.com/samber/oops"

	"github.com/acornweb/identity/internal/identity"
)

// Constraint names from migration 000001; Create branches on them to
// report which uniqueness rule a racing insert lost against.
const (
	usersPKeyConstraint  = "users_pkey"
	usersEmailConstraint = "users_email_key"
)

// UserRepository implements identity.UserRepository using PostgreSQL.
type UserRepository struct {
	pool pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores a new user.
func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID.String(), user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case usersEmailConstraint:
				return oops.Code("IDENTITY_DUPLICATE_EMAIL").
					With("email", user.Email).
					Wrap(err)
			case usersPKeyConstraint:
				return oops.Code("IDENTITY_DUPLICATE_ID").
					With("id", user.ID.String()).
					Wrap(err)
			}
		}
		return oops.Code("IDENTITY_CREATE_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id.String())

	user, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("IDENTITY_NOT_FOUND").
			With("id", id.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("IDENTITY_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by exact email match (case-sensitive as stored).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)

	user, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("IDENTITY_NOT_FOUND").
			With("email", email).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("IDENTITY_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2 WHERE id = $1
	`, id.String(), passwordHash)
	if err != nil {
		return oops.Code("IDENTITY_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("IDENTITY_NOT_FOUND").
			With("id", id.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *UserRepository) scanUser(row pgx.Row) (*identity.User, error) {
	var (
		idStr        string
		email        string
		passwordHash string
		createdAt    time.Time
	)

	err := row.Scan(&idStr, &email, &passwordHash, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("IDENTITY_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("IDENTITY_INVALID_ID").
			With("operation", "parse user id").
			With("id", idStr).
			Wrap(err)
	}

	return &identity.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface check.
var _ identity.UserRepository = (*UserRepository)(nil)
