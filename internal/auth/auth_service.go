// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Service provides authentication operations.
type Service struct {
	credentials CredentialStore
	sessions    SessionRepository
	hasher      PasswordHasher
	logger      *slog.Logger
	ttl         time.Duration
}

// NewAuthService creates a new Service using the default logger and session TTL.
func NewAuthService(credentials CredentialStore, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	return NewAuthServiceWithLogger(credentials, sessions, hasher, slog.Default())
}

// NewAuthServiceWithLogger creates a new Service that logs to logger.
func NewAuthServiceWithLogger(credentials CredentialStore, sessions SessionRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if credentials == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("credential store is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{
		credentials: credentials,
		sessions:    sessions,
		hasher:      hasher,
		logger:      logger,
		ttl:         DefaultSessionTTL,
	}, nil
}

// SetSessionTTL changes how long new sessions stay valid. Non-positive
// values are ignored.
func (s *Service) SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// dummyPasswordHash is verified when the username is unknown so that both
// failure paths cost the same.
//
//nolint:gosec // G101: intentionally fake hash, never matches any password.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// invalidCredentials is the only failure a caller of Login ever sees for a
// wrong username or password.
func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
}

// Login authenticates a user and creates a session.
// Returns the session, plaintext token, and any error.
func (s *Service) Login(ctx context.Context, username, password, userAgent, ipAddress string) (*Session, string, error) {
	cred, lookupErr := s.credentials.FindCredential(ctx, username)

	var targetHash string
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = cred.PasswordHash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
		targetHash = dummyPasswordHash
	default:
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "find credential").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", invalidCredentials()
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("username", username).
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		s.logger.InfoContext(ctx, "login rejected", "username", username, "known_user", userExists)
		return nil, "", invalidCredentials()
	}

	if s.hasher.NeedsUpgrade(cred.PasswordHash) {
		s.upgradeHash(ctx, cred.Username, password)
	}

	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(cred.UserID, cred.Username, tokenHash, userAgent, ipAddress, time.Now().Add(s.ttl))
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	return session, token, nil
}

// upgradeHash re-hashes a legacy password. Failures are logged only; the
// login itself already succeeded.
func (s *Service) upgradeHash(ctx context.Context, username, password string) {
	newHash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.credentials.UpdatePasswordHash(ctx, username, newHash)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "password hash upgrade failed", "username", username, "error", err)
	}
}

// Logout invalidates a session. The token cannot be used again afterwards.
func (s *Service) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return oops.Code("SESSION_INVALID").Errorf("session is required")
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("SESSION_NOT_FOUND").
				With("session_id", session.ID.String()).
				Wrap(err)
		}
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			With("session_id", session.ID.String()).
			Wrap(err)
	}
	return nil
}

// ValidateSession validates a session token and returns the session if valid.
// Also updates the LastSeenAt timestamp.
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashSessionToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpired() {
		return nil, oops.Code("SESSION_EXPIRED").Errorf("session has expired")
	}

	now := time.Now()
	if err := s.sessions.UpdateLastSeen(ctx, session.ID, now); err != nil {
		s.logger.DebugContext(ctx, "session last-seen update failed", "session_id", session.ID.String(), "error", err)
	} else {
		session.LastSeenAt = now
	}

	return session, nil
}

// PruneExpired deletes every session that has expired.
func (s *Service) PruneExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, oops.Code("SESSION_PRUNE_FAILED").Wrap(err)
	}
	return n, nil
}
