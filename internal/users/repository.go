// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package users manages back-office accounts: uniqueness of usernames,
// password hashing on every write, and the credential view used at login.
package users

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/entity"
)

// ErrDuplicateUsername is wrapped by errors reporting a taken username.
var ErrDuplicateUsername = errors.New("username already taken")

// DuplicateUsername returns the USER_DUPLICATE_USERNAME error for username.
func DuplicateUsername(username string) error {
	return oops.Code("USER_DUPLICATE_USERNAME").
		With("username", username).
		Wrap(ErrDuplicateUsername)
}

// Repository persists users.
//
// FindByUsername returns an error wrapping entity.ErrNotFound when no user
// has the name. Create and Save return a DuplicateUsername error if the
// store's own uniqueness check fails.
type Repository interface {
	entity.Repository[entity.User]
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (entity.User, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) error
}
