// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// SessionResolver maps an authenticated user to a durable session
// reference and back. The reference is the user's id, with no
// transformation; the surrounding session layer owns storage and signing.
type SessionResolver struct {
	users  UserRepository
	logger *slog.Logger
}

// NewSessionResolver creates a new SessionResolver.
func NewSessionResolver(users UserRepository) (*SessionResolver, error) {
	if users == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("user repository is required")
	}
	return &SessionResolver{users: users, logger: slog.Default()}, nil
}

// NewSessionResolverWithLogger creates a new SessionResolver with a custom logger.
func NewSessionResolverWithLogger(users UserRepository, logger *slog.Logger) (*SessionResolver, error) {
	if logger == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	resolver, err := NewSessionResolver(users)
	if err != nil {
		return nil, err
	}
	resolver.logger = logger
	return resolver, nil
}

// Serialize returns the durable session reference for a user.
func (r *SessionResolver) Serialize(user *User) string {
	return user.ID.String()
}

// Deserialize resolves a session reference back to its user.
//
// A malformed or unknown reference yields an absent principal (nil, nil),
// never an error: the caller treats the session as unauthenticated and
// moves on. Only storage faults are returned as errors.
func (r *SessionResolver) Deserialize(ctx context.Context, sessionRef string) (*User, error) {
	id, err := ParseUserID(sessionRef)
	if err != nil {
		r.logger.Debug("session reference malformed, treating as unauthenticated", "session_ref", sessionRef)
		return nil, nil
	}

	user, err := r.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.Debug("session reference has no user, treating as unauthenticated", "user_id", id.String())
			return nil, nil
		}
		return nil, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get user by id").
			With("user_id", id.String()).
			Wrap(err)
	}
	return user, nil
}
