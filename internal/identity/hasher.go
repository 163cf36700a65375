// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity

import (
	"errors"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the fixed cost factor for password hashes.
const BcryptCost = 10

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("IDENTITY_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher provides one-way salted password hashing and
// constant-effort verification.
type PasswordHasher interface {
	// Hash produces a salted hash of the password. The salt is generated
	// fresh per call, so two hashes of the same password differ.
	Hash(password string) (string, error)

	// Verify checks if the password matches the hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or an error
	// only when the stored hash itself is malformed.
	Verify(password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher at the fixed cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: BcryptCost}
}

// Hash produces a salted bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("IDENTITY_HASH_FAILED").Wrap(err)
	}
	return string(hash), nil
}

// Verify checks the password against the stored hash. The comparison cost
// is fixed by the hash's own cost factor regardless of outcome.
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, oops.Code("IDENTITY_INVALID_HASH").Wrap(err)
}

// Compile-time interface check.
var _ PasswordHasher = (*BcryptHasher)(nil)
