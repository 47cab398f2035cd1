// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package memory provides an in-process auth.SessionRepository for the
// memory storage mode and for tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/auth"
)

// SessionRepository keeps sessions in a map keyed by id. Stored values are
// copies, so callers may mutate what they pass in or get back.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[ulid.ULID]auth.Session
}

var _ auth.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates an empty SessionRepository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[ulid.ULID]auth.Session)}
}

func notFound(key, value string) error {
	return oops.Code("SESSION_NOT_FOUND").With(key, value).Wrap(auth.ErrNotFound)
}

// Create stores a copy of session. Token hashes are unique.
func (r *SessionRepository) Create(_ context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.TokenHash == session.TokenHash {
			return oops.Code("SESSION_CREATE_FAILED").
				With("session_id", session.ID.String()).
				Errorf("token hash already in use")
		}
	}
	r.sessions[session.ID] = *session
	return nil
}

// GetByTokenHash returns the session holding tokenHash.
func (r *SessionRepository) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.TokenHash == tokenHash {
			found := s
			return &found, nil
		}
	}
	return nil, notFound("token_hash", "redacted")
}

// UpdateLastSeen records activity on session id.
func (r *SessionRepository) UpdateLastSeen(_ context.Context, id ulid.ULID, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return notFound("session_id", id.String())
	}
	s.LastSeenAt = lastSeen
	r.sessions[id] = s
	return nil
}

// Delete removes session id.
func (r *SessionRepository) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return notFound("session_id", id.String())
	}
	delete(r.sessions, id)
	return nil
}

// DeleteExpired removes sessions that expired before now.
func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.IsExpiredAt(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
