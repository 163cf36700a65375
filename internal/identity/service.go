// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service orchestrates registration, authentication, identifier resolution,
// and the secondary-credential flows.
type Service struct {
	users         UserRepository
	verifications EmailVerificationRepository
	resets        PasswordResetRepository
	hasher        PasswordHasher
	logger        *slog.Logger
}

// NewService creates a new Service.
func NewService(
	users UserRepository,
	verifications EmailVerificationRepository,
	resets PasswordResetRepository,
	hasher PasswordHasher,
) (*Service, error) {
	if users == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("user repository is required")
	}
	if verifications == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("verification repository is required")
	}
	if resets == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("reset repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	return &Service{
		users:         users,
		verifications: verifications,
		resets:        resets,
		hasher:        hasher,
		logger:        slog.Default(),
	}, nil
}

// NewServiceWithLogger creates a new Service with a custom logger.
func NewServiceWithLogger(
	users UserRepository,
	verifications EmailVerificationRepository,
	resets PasswordResetRepository,
	hasher PasswordHasher,
	logger *slog.Logger,
) (*Service, error) {
	if logger == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	svc, err := NewService(users, verifications, resets, hasher)
	if err != nil {
		return nil, err
	}
	svc.logger = logger
	return svc, nil
}

// dummyPasswordHash is verified when a login names a non-existent user so
// both failure causes cost one bcrypt comparison. This is NOT a real
// credential - it is a fake hash that will never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing consistency, not a credential.
const dummyPasswordHash = "$2a$10$AAAAAAAAAAAAAAAAAAAAAOAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates an account for email, or merges into the existing one.
//
// If the email is already registered, the call is treated as a login
// attempt in disguise: a matching password returns the existing user, a
// mismatch fails with IDENTITY_INCORRECT_PASSWORD. Register is therefore
// idempotent when called with the correct password. This is a deliberate
// product behavior, not an accident.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		ok, verifyErr := s.hasher.Verify(password, existing.PasswordHash)
		if verifyErr != nil {
			return nil, oops.Code("IDENTITY_REGISTER_FAILED").
				With("operation", "verify password").
				Wrap(verifyErr)
		}
		if !ok {
			return nil, oops.Code("IDENTITY_INCORRECT_PASSWORD").Errorf("incorrect password")
		}
		s.logger.Debug("register resolved to existing account", "user_id", existing.ID.String())
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("IDENTITY_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user, err := NewUser(email, hash)
	if err != nil {
		return nil, err
	}

	// Concurrent registrations race here; the store's uniqueness
	// constraints arbitrate and the loser surfaces a duplicate-kind error.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID.String())
	return user, nil
}

// Login authenticates a user by the username/email field.
//
// An unknown user and a wrong password both fail with
// IDENTITY_INVALID_CREDENTIALS; the caller cannot tell which part was
// wrong. A dummy hash is verified when the user is absent so the two
// failures cost the same.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("IDENTITY_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, oops.Code("IDENTITY_INVALID_CREDENTIALS").Errorf("invalid username or password")
		}
		return nil, oops.Code("IDENTITY_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, oops.Code("IDENTITY_INVALID_CREDENTIALS").Errorf("invalid username or password")
	}

	s.logger.Debug("user logged in", "user_id", user.ID.String())
	return user, nil
}

// ResolveIdentifier looks a user up by an id-or-email identifier. The
// identifier's shape is parsed once; a well-formed id resolves by id,
// anything else by exact email match.
func (s *Service) ResolveIdentifier(ctx context.Context, identifier string) (*User, error) {
	ident := ParseIdentifier(identifier)
	switch ident.Kind {
	case IdentifierByID:
		return s.users.GetByID(ctx, ident.ID)
	default:
		return s.users.GetByEmail(ctx, ident.Email)
	}
}

// CreateEmailVerification issues a fresh verification code for a user with
// a one-hour time-to-live and returns the record's storage id. Outstanding
// codes for the same user remain valid until their own expiry.
func (s *Service) CreateEmailVerification(ctx context.Context, userID uuid.UUID) (ulid.ULID, error) {
	verification, err := NewEmailVerification(userID)
	if err != nil {
		return ulid.ULID{}, err
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return ulid.ULID{}, oops.Code("VERIFICATION_CREATE_FAILED").
			With("operation", "store verification").
			With("user_id", userID.String()).
			Wrap(err)
	}
	s.logger.Debug("email verification issued",
		"user_id", userID.String(),
		"verification_id", verification.ID.String())
	return verification.ID, nil
}

// VerifyEmail checks a verification code for a user. Absence and expiry are
// deliberately unified as VERIFICATION_INVALID_OR_EXPIRED. The check only
// reads; any state transition it should trigger is the caller's concern.
func (s *Service) VerifyEmail(ctx context.Context, userID uuid.UUID, code string) (*EmailVerification, error) {
	if code == "" {
		return nil, oops.Code("VERIFICATION_INVALID_OR_EXPIRED").Errorf("invalid or expired verification code")
	}
	verification, err := s.verifications.GetByUserAndCode(ctx, userID, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("VERIFICATION_INVALID_OR_EXPIRED").Errorf("invalid or expired verification code")
		}
		return nil, oops.Code("VERIFICATION_LOOKUP_FAILED").
			With("operation", "get verification by user and code").
			Wrap(err)
	}
	if verification.IsExpired() {
		return nil, oops.Code("VERIFICATION_INVALID_OR_EXPIRED").Errorf("invalid or expired verification code")
	}
	return verification, nil
}

// CreatePasswordReset issues a fresh reset token for a user with a one-hour
// time-to-live and returns the record's storage id.
func (s *Service) CreatePasswordReset(ctx context.Context, userID uuid.UUID) (ulid.ULID, error) {
	reset, err := NewPasswordReset(userID)
	if err != nil {
		return ulid.ULID{}, err
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return ulid.ULID{}, oops.Code("RESET_CREATE_FAILED").
			With("operation", "store password reset").
			With("user_id", userID.String()).
			Wrap(err)
	}
	s.logger.Debug("password reset issued",
		"user_id", userID.String(),
		"reset_id", reset.ID.String())
	return reset.ID, nil
}

// FindPasswordReset resolves a reset token to its record. Absence and
// expiry are unified as RESET_INVALID_OR_EXPIRED. Rotating the password
// with the returned record is the caller's responsibility.
func (s *Service) FindPasswordReset(ctx context.Context, token string) (*PasswordReset, error) {
	if token == "" {
		return nil, oops.Code("RESET_INVALID_OR_EXPIRED").Errorf("invalid or expired reset token")
	}
	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("RESET_INVALID_OR_EXPIRED").Errorf("invalid or expired reset token")
		}
		return nil, oops.Code("RESET_LOOKUP_FAILED").
			With("operation", "get reset by token").
			Wrap(err)
	}
	if reset.IsExpired() {
		return nil, oops.Code("RESET_INVALID_OR_EXPIRED").Errorf("invalid or expired reset token")
	}
	return reset, nil
}
