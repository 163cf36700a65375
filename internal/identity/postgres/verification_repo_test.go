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

func testVerification(t *testing.T) *identity.EmailVerification {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &identity.EmailVerification{
		ID:        ulid.Make(),
		UserID:    uuid.New(),
		Code:      "0123456789abcdef0123456789abcdef",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestEmailVerificationRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts verification", func(t *testing.T) {
		mock := newMockPool(t)
		v := testVerification(t)

		mock.ExpectExec(`INSERT INTO email_verifications`).
			WithArgs(v.ID.String(), v.UserID.String(), v.Code, v.ExpiresAt, v.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewEmailVerificationRepository(mock)
		err := repo.Create(ctx, v)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user surfaces as IDENTITY_NOT_FOUND", func(t *testing.T) {
		mock := newMockPool(t)
		v := testVerification(t)

		mock.ExpectExec(`INSERT INTO email_verifications`).
			WithArgs(v.ID.String(), v.UserID.String(), v.Code, v.ExpiresAt, v.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		repo := postgres.NewEmailVerificationRepository(mock)
		err := repo.Create(ctx, v)
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrNotFound)
		errutil.AssertErrorCode(t, err, "IDENTITY_NOT_FOUND")
	})

	t.Run("database error wraps as VERIFICATION_CREATE_FAILED", func(t *testing.T) {
		mock := newMockPool(t)
		v := testVerification(t)

		mock.ExpectExec(`INSERT INTO email_verifications`).
			WithArgs(v.ID.String(), v.UserID.String(), v.Code, v.ExpiresAt, v.CreatedAt).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewEmailVerificationRepository(mock)
		err := repo.Create(ctx, v)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "VERIFICATION_CREATE_FAILED")
	})
}

func TestEmailVerificationRepository_GetByUserAndCode(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "user_id", "verification_code", "expires_at", "created_at"}

	t.Run("returns matching verification", func(t *testing.T) {
		mock := newMockPool(t)
		v := testVerification(t)

		rows := pgxmock.NewRows(columns).
			AddRow(v.ID.String(), v.UserID.String(), v.Code, v.ExpiresAt, v.CreatedAt)
		mock.ExpectQuery(`SELECT id, user_id, verification_code, expires_at, created_at\s+FROM email_verifications`).
			WithArgs(v.UserID.String(), v.Code).
			WillReturnRows(rows)

		repo := postgres.NewEmailVerificationRepository(mock)
		got, err := repo.GetByUserAndCode(ctx, v.UserID, v.Code)
		require.NoError(t, err)
		assert.Equal(t, v.ID, got.ID)
		assert.Equal(t, v.UserID, got.UserID)
		assert.Equal(t, v.Code, got.Code)
		assert.WithinDuration(t, v.ExpiresAt, got.ExpiresAt, time.Second)
	})

	t.Run("no match wraps ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		userID := uuid.New()

		mock.ExpectQuery(`SELECT id, user_id, verification_code, expires_at, created_at\s+FROM email_verifications`).
			WithArgs(userID.String(), "nope").
			WillReturnRows(pgxmock.NewRows(columns))

		repo := postgres.NewEmailVerificationRepository(mock)
		got, err := repo.GetByUserAndCode(ctx, userID, "nope")
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, identity.ErrNotFound)
		errutil.AssertErrorCode(t, err, "VERIFICATION_NOT_FOUND")
	})

	t.Run("database error wraps as VERIFICATION_GET_FAILED", func(t *testing.T) {
		mock := newMockPool(t)
		userID := uuid.New()

		mock.ExpectQuery(`SELECT id, user_id, verification_code, expires_at, created_at\s+FROM email_verifications`).
			WithArgs(userID.String(), "abc").
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewEmailVerificationRepository(mock)
		got, err := repo.GetByUserAndCode(ctx, userID, "abc")
		require.Error(t, err)
		assert.Nil(t, got)
		errutil.AssertErrorCode(t, err, "VERIFICATION_GET_FAILED")
	})

	t.Run("malformed stored id is VERIFICATION_INVALID_ID", func(t *testing.T) {
		mock := newMockPool(t)
		v := testVerification(t)

		rows := pgxmock.NewRows(columns).
			AddRow("not-a-ulid!", v.UserID.String(), v.Code, v.ExpiresAt, v.CreatedAt)
		mock.ExpectQuery(`SELECT id, user_id, verification_code, expires_at, created_at\s+FROM email_verifications`).
			WithArgs(v.UserID.String(), v.Code).
			WillReturnRows(rows)

		repo := postgres.NewEmailVerificationRepository(mock)
		got, err := repo.GetByUserAndCode(ctx, v.UserID, v.Code)
		require.Error(t, err)
		assert.Nil(t, got)
		errutil.AssertErrorCode(t, err, "VERIFICATION_GET_FAILED")
	})
}
