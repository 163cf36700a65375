// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acornweb/identity/internal/identity"
	"github.com/acornweb/identity/internal/identity/postgres"
	"github.com/acornweb/identity/pkg/errutil"
)

func testReset(t *testing.T) *identity.PasswordReset {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &identity.PasswordReset{
		ID:        ulid.Make(),
		UserID:    uuid.New(),
		Token:     "fedcba9876543210fedcba9876543210",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestPasswordResetRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts reset", func(t *testing.T) {
		mock := newMockPool(t)
		reset := testReset(t)

		mock.ExpectExec(`INSERT INTO password_resets`).
			WithArgs(reset.ID.String(), reset.UserID.String(), reset.Token, reset.ExpiresAt, reset.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewPasswordResetRepository(mock)
		err := repo.Create(ctx, reset)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user surfaces as IDENTITY_NOT_FOUND", func(t *testing.T) {
		mock := newMockPool(t)
		reset := testReset(t)

		mock.ExpectExec(`INSERT INTO password_resets`).
			WithArgs(reset.ID.String(), reset.UserID.String(), reset.Token, reset.ExpiresAt, reset.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		repo := postgres.NewPasswordResetRepository(mock)
		err := repo.Create(ctx, reset)
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})

	t.Run("database error wraps as RESET_CREATE_FAILED", func(t *testing.T) {
		mock := newMockPool(t)
		reset := testReset(t)

		mock.ExpectExec(`INSERT INTO password_resets`).
			WithArgs(reset.ID.String(), reset.UserID.String(), reset.Token, reset.ExpiresAt, reset.CreatedAt).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewPasswordResetRepository(mock)
		err := repo.Create(ctx, reset)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_CREATE_FAILED")
	})
}

func TestPasswordResetRepository_GetByToken(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "user_id", "reset_token", "expires_at", "created_at"}

	t.Run("returns matching reset", func(t *testing.T) {
		mock := newMockPool(t)
		reset := testReset(t)

		rows := pgxmock.NewRows(columns).
			AddRow(reset.ID.String(), reset.UserID.String(), reset.Token, reset.ExpiresAt, reset.CreatedAt)
		mock.ExpectQuery(`SELECT id, user_id, reset_token, expires_at, created_at\s+FROM password_resets`).
			WithArgs(reset.Token).
			WillReturnRows(rows)

		repo := postgres.NewPasswordResetRepository(mock)
		got, err := repo.GetByToken(ctx, reset.Token)
		require.NoError(t, err)
		assert.Equal(t, reset.ID, got.ID)
		assert.Equal(t, reset.UserID, got.UserID)
		assert.Equal(t, reset.Token, got.Token)
	})

	t.Run("no match wraps ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)

		mock.ExpectQuery(`SELECT id, user_id, reset_token, expires_at, created_at\s+FROM password_resets`).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows(columns))

		repo := postgres.NewPasswordResetRepository(mock)
		got, err := repo.GetByToken(ctx, "nope")
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, identity.ErrNotFound)
		errutil.AssertErrorCode(t, err, "RESET_NOT_FOUND")
	})

	t.Run("database error wraps as RESET_GET_FAILED", func(t *testing.T) {
		mock := newMockPool(t)

		mock.ExpectQuery(`SELECT id, user_id, reset_token, expires_at, created_at\s+FROM password_resets`).
			WithArgs("abc").
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewPasswordResetRepository(mock)
		got, err := repo.GetByToken(ctx, "abc")
		require.Error(t, err)
		assert.Nil(t, got)
		errutil.AssertErrorCode(t, err, "RESET_GET_FAILED")
	})
}
