// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/store"
	"github.com/poseiden/backoffice/internal/users"
)

// UserMapping maps entity.User to users. A unique violation on username is
// reported as users.ErrDuplicateUsername.
func UserMapping() Mapping[entity.User] {
	return Mapping[entity.User]{
		Table:    "users",
		IDColumn: "id",
		Columns:  []string{"username", "password", "fullname", "role"},
		Values: func(u entity.User) []any {
			return []any{u.Username, u.Password, u.Fullname, string(u.Role)}
		},
		Scan: func(row pgx.Row) (entity.User, error) {
			var (
				u    entity.User
				role string
			)
			err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Fullname, &role)
			u.Role = access.Role(role)
			return u, err
		},
		MapError: func(err error, u entity.User) error {
			if IsUniqueViolation(err) {
				return users.DuplicateUsername(u.Username)
			}
			return nil
		},
	}
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// UserRepository implements users.Repository.
type UserRepository struct {
	*Repository[entity.User]
}

// NewUserRepository returns the users repository.
func NewUserRepository(pool store.Pool) *UserRepository {
	return &UserRepository{Repository: NewRepository(pool, UserMapping())}
}

// ExistsByUsername reports whether an account has username.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, oops.Code("DB_QUERY_FAILED").
			With("operation", "user exists").
			With("username", username).
			Wrap(err)
	}
	return exists, nil
}

// FindByUsername returns the account named username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (entity.User, error) {
	return r.findOne(ctx, r.selectSQL+" WHERE username = $1", username)
}

// UpdatePasswordHash replaces the stored hash of username.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password = $2 WHERE username = $1`, username, hash)
	if err != nil {
		return oops.Code("DB_EXEC_FAILED").
			With("operation", "update password").
			With("username", username).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return entity.NotFoundByName(entity.KindUser, username)
	}
	return nil
}

var _ users.Repository = (*UserRepository)(nil)
