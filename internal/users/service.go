// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package users

import (
	"context"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/trace"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/entity"
)

// ServiceConfig holds dependencies for Service.
type ServiceConfig struct {
	Repo     Repository
	Hasher   auth.PasswordHasher
	Observer entity.Observer // optional
	Tracer   trace.Tracer    // optional
}

// Service is the user specialisation of entity.Service: usernames are unique
// and passwords are hashed before every write.
type Service struct {
	crud   *entity.Service[entity.User]
	repo   Repository
	hasher auth.PasswordHasher
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, oops.Code("USER_SERVICE_INVALID").Errorf("repository is required")
	}
	if cfg.Hasher == nil {
		return nil, oops.Code("USER_SERVICE_INVALID").Errorf("password hasher is required")
	}
	crud, err := entity.NewService(entity.ServiceConfig[entity.User]{
		Repo:     cfg.Repo,
		Observer: cfg.Observer,
		Tracer:   cfg.Tracer,
	})
	if err != nil {
		return nil, err
	}
	return &Service{crud: crud, repo: cfg.Repo, hasher: cfg.Hasher}, nil
}

// Create stores a new account. candidate.Password is plaintext; an empty
// Role defaults to USER. Returns a DuplicateUsername error, without writing,
// if the username is taken.
func (s *Service) Create(ctx context.Context, candidate entity.User) (entity.User, error) {
	if candidate.Role == "" {
		candidate.Role = access.RoleUser
	}
	if err := entity.Check(candidate); err != nil {
		return entity.User{}, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, candidate.Username)
	if err != nil {
		return entity.User{}, oops.Code("USER_LOOKUP_FAILED").With("username", candidate.Username).Wrap(err)
	}
	if exists {
		return entity.User{}, DuplicateUsername(candidate.Username)
	}

	hashed, err := s.hash(candidate)
	if err != nil {
		return entity.User{}, err
	}
	return s.crud.Create(ctx, hashed)
}

// Update overwrites account id with incoming. incoming.Password is always
// treated as a new plaintext and re-hashed. Renaming to a username held by
// another account returns a DuplicateUsername error.
func (s *Service) Update(ctx context.Context, id int64, incoming entity.User) (entity.User, error) {
	if err := entity.Check(incoming); err != nil {
		return entity.User{}, err
	}

	stored, err := s.crud.FindByID(ctx, id)
	if err != nil {
		return entity.User{}, err
	}
	if incoming.Username != stored.Username {
		exists, err := s.repo.ExistsByUsername(ctx, incoming.Username)
		if err != nil {
			return entity.User{}, oops.Code("USER_LOOKUP_FAILED").With("username", incoming.Username).Wrap(err)
		}
		if exists {
			return entity.User{}, DuplicateUsername(incoming.Username)
		}
	}

	hashed, err := s.hash(incoming)
	if err != nil {
		return entity.User{}, err
	}
	return s.crud.Update(ctx, id, hashed)
}

// Delete removes account id. Provenance fields of other records that name
// the user are left untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.crud.Delete(ctx, id)
}

// FindByID returns account id or NotFound(id).
func (s *Service) FindByID(ctx context.Context, id int64) (entity.User, error) {
	return s.crud.FindByID(ctx, id)
}

// FindAll returns every account ordered by id.
func (s *Service) FindAll(ctx context.Context) ([]entity.User, error) {
	return s.crud.FindAll(ctx)
}

// Count returns the number of accounts.
func (s *Service) Count(ctx context.Context) (int, error) {
	all, err := s.crud.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (s *Service) hash(u entity.User) (entity.User, error) {
	h, err := s.hasher.Hash(u.Password)
	if err != nil {
		return entity.User{}, oops.Code("USER_HASH_FAILED").With("username", u.Username).Wrap(err)
	}
	u.Password = h
	return u, nil
}
