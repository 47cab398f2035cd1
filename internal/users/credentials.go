// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package users

import (
	"context"

	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/entity"
)

// CredentialStore exposes the user repository to the authenticator.
type CredentialStore struct {
	repo Repository
}

// NewCredentialStore creates a CredentialStore over repo.
func NewCredentialStore(repo Repository) *CredentialStore {
	return &CredentialStore{repo: repo}
}

// FindCredential returns the stored credential for username. A missing user
// is reported as auth.ErrNotFound.
func (c *CredentialStore) FindCredential(ctx context.Context, username string) (*auth.Credential, error) {
	u, err := c.repo.FindByUsername(ctx, username)
	if entity.IsNotFound(err) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_LOOKUP_FAILED").With("username", username).Wrap(err)
	}
	return &auth.Credential{
		UserID:       u.ID,
		Username:     u.Username,
		PasswordHash: u.Password,
		Fullname:     u.Fullname,
		Role:         string(u.Role),
	}, nil
}

// UpdatePasswordHash replaces the stored hash for username.
func (c *CredentialStore) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	err := c.repo.UpdatePasswordHash(ctx, username, hash)
	if entity.IsNotFound(err) {
		return oops.Code("CREDENTIAL_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return oops.Code("CREDENTIAL_UPDATE_FAILED").With("username", username).Wrap(err)
	}
	return nil
}

var _ auth.CredentialStore = (*CredentialStore)(nil)
