// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acornweb/identity/internal/identity"
	"github.com/acornweb/identity/pkg/errutil"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with generated id", func(t *testing.T) {
		user, err := identity.NewUser("alice@example.com", "$2a$10$somehash")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "$2a$10$somehash", user.PasswordHash)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("distinct users get distinct ids", func(t *testing.T) {
		a, err := identity.NewUser("a@example.com", "hash")
		require.NoError(t, err)
		b, err := identity.NewUser("b@example.com", "hash")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		user, err := identity.NewUser("not-an-email", "hash")
		require.Error(t, err)
		assert.Nil(t, user)
		errutil.AssertErrorCode(t, err, "IDENTITY_INVALID_EMAIL")
	})

	t.Run("rejects empty hash", func(t *testing.T) {
		user, err := identity.NewUser("alice@example.com", "")
		require.Error(t, err)
		assert.Nil(t, user)
		errutil.AssertErrorCode(t, err, "IDENTITY_INVALID_HASH")
	})
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"plain address", "alice@example.com", false},
		{"subdomain", "alice@mail.example.com", false},
		{"plus tag", "alice+tag@example.com", false},
		{"empty", "", true},
		{"no at sign", "alice.example.com", true},
		{"missing local part", "@example.com", true},
		{"missing domain", "alice@", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := identity.ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "IDENTITY_INVALID_EMAIL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseUserID(t *testing.T) {
	t.Run("round-trips a generated id", func(t *testing.T) {
		want := uuid.New()
		got, err := identity.ParseUserID(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("accepts uppercase hex", func(t *testing.T) {
		_, err := identity.ParseUserID("123E4567-E89B-12D3-A456-426614174000")
		assert.NoError(t, err)
	})

	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"not hex", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"},
		{"no dashes", "123e4567e89b12d3a456426614174000"},
		{"braced form", "{123e4567-e89b-12d3-a456-426614174000}"},
		{"urn form", "urn:uuid:123e4567-e89b-12d3-a456-426614174000"},
		{"too short", "123e4567-e89b-12d3-a456"},
		{"trailing junk", "123e4567-e89b-12d3-a456-426614174000x"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := identity.ParseUserID(tt.id)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "IDENTITY_INVALID_ID")
		})
	}
}

func TestParseIdentifier(t *testing.T) {
	t.Run("well-formed id resolves by id", func(t *testing.T) {
		id := uuid.New()
		ident := identity.ParseIdentifier(id.String())
		assert.Equal(t, identity.IdentifierByID, ident.Kind)
		assert.Equal(t, id, ident.ID)
	})

	t.Run("anything else resolves by email", func(t *testing.T) {
		for _, s := range []string{"alice@example.com", "not-a-uuid", ""} {
			ident := identity.ParseIdentifier(s)
			assert.Equal(t, identity.IdentifierByEmail, ident.Kind)
			assert.Equal(t, s, ident.Email)
		}
	})
}
