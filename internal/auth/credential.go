// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package auth

import "context"

// AuthorityUser is the single authority claim carried by every session.
const AuthorityUser = "ROLE_USER"

// Credential is the subset of a user account needed to authenticate.
type Credential struct {
	UserID       int64
	Username     string
	PasswordHash string
	Fullname     string
	Role         string
}

// Profile is the caller-facing view of the authenticated user.
// It never carries the password hash.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
}

// CredentialStore looks up credentials by username.
type CredentialStore interface {
	// FindCredential returns the credential for username (exact match).
	// Returns an error wrapping ErrNotFound if no such user exists.
	FindCredential(ctx context.Context, username string) (*Credential, error)

	// UpdatePasswordHash replaces the stored hash for username.
	UpdatePasswordHash(ctx context.Context, username, hash string) error
}
