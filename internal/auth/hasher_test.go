// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/pkg/errutil"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("produces PHC encoded argon2id hash", func(t *testing.T) {
		hash, err := hasher.Hash("Secret#2024")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))
		assert.Len(t, strings.Split(hash, "$"), 6)
	})

	t.Run("never equals the plaintext", func(t *testing.T) {
		hash, err := hasher.Hash("Secret#2024")
		require.NoError(t, err)
		assert.NotEqual(t, "Secret#2024", hash)
	})

	t.Run("same password produces different hashes", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})
}

func TestArgon2idHasher_Verify(t *testing.T) {
	hasher := auth.NewArgon2idHasher()
	const plaintext = "Trader#Desk9"

	hash, err := hasher.Hash(plaintext)
	require.NoError(t, err)

	t.Run("exact plaintext verifies", func(t *testing.T) {
		ok, err := hasher.Verify(plaintext, hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("every single character variation fails", func(t *testing.T) {
		for i := range plaintext {
			variant := []byte(plaintext)
			variant[i]++
			ok, err := hasher.Verify(string(variant), hash)
			require.NoError(t, err)
			assert.False(t, ok, "variant %q must not verify", variant)
		}
		ok, err := hasher.Verify(plaintext+"x", hash)
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = hasher.Verify(plaintext[:len(plaintext)-1], hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	tests := []struct {
		name    string
		hash    string
		errText string
	}{
		{name: "invalid format", hash: "not-a-valid-hash"},
		{name: "wrong algorithm", hash: "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", errText: "unsupported hash algorithm"},
		{name: "invalid version", hash: "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "invalid parameters", hash: "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{name: "invalid salt base64", hash: "$argon2id$v=19$m=65536,t=1,p=4$!!!invalid!!!$aGFzaA"},
		{name: "invalid key base64", hash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!invalid!!!"},
		{name: "threads overflow", hash: "$argon2id$v=19$m=65536,t=1,p=256$c2FsdA$aGFzaA", errText: "threads value"},
	}
	for _, tt := range tests {
		t.Run(tt.name+" returns error", func(t *testing.T) {
			_, err := hasher.Verify("password", tt.hash)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestArgon2idHasher_LegacyBcrypt(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	legacy, err := bcrypt.GenerateFromPassword([]byte("Legacy#Pass1"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("verifies matching bcrypt hash", func(t *testing.T) {
		ok, err := hasher.Verify("Legacy#Pass1", string(legacy))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects wrong password against bcrypt hash", func(t *testing.T) {
		ok, err := hasher.Verify("Legacy#Pass2", string(legacy))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed bcrypt hash returns error", func(t *testing.T) {
		_, err := hasher.Verify("whatever", "$2a$10$short")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})

	t.Run("bcrypt hash needs upgrade", func(t *testing.T) {
		assert.True(t, hasher.NeedsUpgrade(string(legacy)))
	})

	t.Run("argon2id hash does not need upgrade", func(t *testing.T) {
		hash, err := hasher.Hash("password")
		require.NoError(t, err)
		assert.False(t, hasher.NeedsUpgrade(hash))
	})
}
