// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acornweb/identity/internal/identity"
	"github.com/acornweb/identity/pkg/errutil"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := identity.NewBcryptHasher()

	t.Run("hash then verify succeeds", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

		ok, err := hasher.Verify("correct horse battery staple", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password is a clean mismatch", func(t *testing.T) {
		hash, err := hasher.Hash("password1")
		require.NoError(t, err)

		ok, err := hasher.Verify("password2", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := hasher.Hash("password1")
		require.NoError(t, err)
		second, err := hasher.Hash("password1")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "IDENTITY_EMPTY_PASSWORD")
	})

	t.Run("malformed stored hash is an error", func(t *testing.T) {
		ok, err := hasher.Verify("password1", "not-a-bcrypt-hash")
		require.Error(t, err)
		assert.False(t, ok)
		errutil.AssertErrorCode(t, err, "IDENTITY_INVALID_HASH")
	})
}
