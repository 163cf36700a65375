// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Reset token configuration.
const (
	ResetTokenBytes = 16        // 16 bytes = 32 hex chars
	ResetTokenTTL   = time.Hour // 1 hour expiry
)

// PasswordReset represents an outstanding password-reset request, looked up
// by its opaque token. Like verification codes, outstanding resets are not
// superseded by newer ones.
type PasswordReset struct {
	ID        ulid.ULID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewPasswordReset creates a validated PasswordReset with a fresh random
// token and a one-hour expiry.
func NewPasswordReset(userID uuid.UUID) (*PasswordReset, error) {
	if userID == uuid.Nil {
		return nil, oops.Code("RESET_INVALID_USER").Errorf("user id cannot be zero")
	}
	token, err := GenerateResetToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &PasswordReset{
		ID:        ulid.Make(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(ResetTokenTTL),
		CreatedAt: now,
	}, nil
}

// IsExpired returns true if the reset token has expired.
func (r *PasswordReset) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// GenerateResetToken creates a secure random hex token.
func GenerateResetToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("RESET_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// PasswordResetRepository manages password-reset persistence.
type PasswordResetRepository interface {
	// Create stores a new password reset request.
	Create(ctx context.Context, reset *PasswordReset) error

	// GetByToken retrieves a reset request by its token.
	// Returns ErrNotFound when no record matches; expiry is the caller's
	// check.
	GetByToken(ctx context.Context, token string) (*PasswordReset, error)
}
