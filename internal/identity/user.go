// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// userIDRegex matches the canonical 8-4-4-4-12 hex form. UserIDs are
// validated against this before any storage access so a malformed id never
// reaches a query.
var userIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// User represents a registered account.
// Email is an alternate lookup key, stored and matched case-sensitively.
// PasswordHash is opaque; it is only ever checked through PasswordHasher.Verify.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser creates a validated User with a freshly generated id.
// passwordHash must be the finished hasher output, never a plaintext password.
func NewUser(email, passwordHash string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("IDENTITY_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

// ValidateEmail checks the minimal shape of an email address. The store's
// uniqueness constraint is the real arbiter; this only rejects values that
// could never be addresses.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("IDENTITY_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return oops.Code("IDENTITY_INVALID_EMAIL").
			With("email", email).
			Errorf("email must contain a local part and a domain")
	}
	return nil
}

// ParseUserID parses s as a canonical user id. It fails with
// IDENTITY_INVALID_ID on anything that is not the strict 8-4-4-4-12 hex
// form, without touching storage.
func ParseUserID(s string) (uuid.UUID, error) {
	if !userIDRegex.MatchString(s) {
		return uuid.UUID{}, oops.Code("IDENTITY_INVALID_ID").
			With("id", s).
			Errorf("malformed user id")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, oops.Code("IDENTITY_INVALID_ID").
			With("id", s).
			Wrap(err)
	}
	return id, nil
}

// IdentifierKind discriminates the two lookup forms accepted by a single
// "username" field.
type IdentifierKind int

// Identifier kinds.
const (
	IdentifierByID IdentifierKind = iota
	IdentifierByEmail
)

// Identifier is the parsed form of an id-or-email lookup key. The shape is
// decided exactly once, at the boundary, by ParseIdentifier.
type Identifier struct {
	Kind  IdentifierKind
	ID    uuid.UUID // set when Kind == IdentifierByID
	Email string    // set when Kind == IdentifierByEmail
}

// ParseIdentifier classifies s: a well-formed user id resolves by id,
// anything else falls through to an email-keyed lookup.
func ParseIdentifier(s string) Identifier {
	if id, err := ParseUserID(s); err == nil {
		return Identifier{Kind: IdentifierByID, ID: id}
	}
	return Identifier{Kind: IdentifierByEmail, Email: s}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Uniqueness violations surface as
	// IDENTITY_DUPLICATE_EMAIL or IDENTITY_DUPLICATE_ID errors.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by exact email match.
	// Returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword replaces the stored password hash for a user.
	// Supports the rotation performed by a completed reset flow.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
