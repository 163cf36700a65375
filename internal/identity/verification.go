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

// Verification code configuration.
const (
	VerificationCodeBytes = 16        // 16 bytes = 32 hex chars
	VerificationTTL       = time.Hour // 1 hour expiry
)

// EmailVerification represents an outstanding email-verification code.
// Issuing a new code does not invalidate older ones; each stays valid until
// its own expiry.
type EmailVerification struct {
	ID        ulid.ULID
	UserID    uuid.UUID
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewEmailVerification creates a validated EmailVerification with a fresh
// random code and a one-hour expiry.
func NewEmailVerification(userID uuid.UUID) (*EmailVerification, error) {
	if userID == uuid.Nil {
		return nil, oops.Code("VERIFICATION_INVALID_USER").Errorf("user id cannot be zero")
	}
	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &EmailVerification{
		ID:        ulid.Make(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(VerificationTTL),
		CreatedAt: now,
	}, nil
}

// IsExpired returns true if the verification code has expired.
func (v *EmailVerification) IsExpired() bool {
	return time.Now().After(v.ExpiresAt)
}

// GenerateVerificationCode creates a secure random hex code.
func GenerateVerificationCode() (string, error) {
	buf := make([]byte, VerificationCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("VERIFICATION_CODE_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// EmailVerificationRepository manages verification-code persistence.
type EmailVerificationRepository interface {
	// Create stores a new verification code.
	Create(ctx context.Context, verification *EmailVerification) error

	// GetByUserAndCode retrieves a verification matching both user and code.
	// Returns ErrNotFound when no record matches; expiry is the caller's
	// check.
	GetByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*EmailVerification, error)
}
