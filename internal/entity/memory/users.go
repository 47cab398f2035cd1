// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package memory

import (
	"context"

	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/users"
)

// UserRepository adds username lookups and uniqueness to Repository.
type UserRepository struct {
	*Repository[entity.User]
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{Repository: NewRepository[entity.User]()}
}

// Create stores u unless its username is taken.
func (r *UserRepository) Create(_ context.Context, u entity.User) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUsernameLocked(u.Username); ok {
		return entity.User{}, users.DuplicateUsername(u.Username)
	}
	return r.insertLocked(u), nil
}

// Save overwrites u unless another account holds its username.
func (r *UserRepository) Save(_ context.Context, u entity.User) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[u.ID]; !ok {
		return entity.User{}, entity.NotFound(entity.KindUser, u.ID)
	}
	if other, ok := r.byUsernameLocked(u.Username); ok && other.ID != u.ID {
		return entity.User{}, users.DuplicateUsername(u.Username)
	}
	r.rows[u.ID] = u
	return u, nil
}

// ExistsByUsername reports whether an account has username.
func (r *UserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsernameLocked(username)
	return ok, nil
}

// FindByUsername returns the account named username.
func (r *UserRepository) FindByUsername(_ context.Context, username string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byUsernameLocked(username)
	if !ok {
		return entity.User{}, entity.NotFoundByName(entity.KindUser, username)
	}
	return u, nil
}

// UpdatePasswordHash replaces the stored hash of username.
func (r *UserRepository) UpdatePasswordHash(_ context.Context, username, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byUsernameLocked(username)
	if !ok {
		return entity.NotFoundByName(entity.KindUser, username)
	}
	u.Password = hash
	r.rows[u.ID] = u
	return nil
}

func (r *UserRepository) byUsernameLocked(username string) (entity.User, bool) {
	for _, u := range r.rows {
		if u.Username == username {
			return u, true
		}
	}
	return entity.User{}, false
}

var _ users.Repository = (*UserRepository)(nil)
