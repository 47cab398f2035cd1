// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// IdentityResolver maps a session to the profile of the user it belongs to.
// The session is always passed in explicitly.
type IdentityResolver struct {
	credentials CredentialStore
}

// NewIdentityResolver creates an IdentityResolver backed by credentials.
func NewIdentityResolver(credentials CredentialStore) (*IdentityResolver, error) {
	if credentials == nil {
		return nil, oops.Code("IDENTITY_RESOLVER_INVALID").Errorf("credential store is required")
	}
	return &IdentityResolver{credentials: credentials}, nil
}

// CurrentUser returns the profile of the session's principal. Returns an
// error wrapping ErrNotFound if the user was removed after login, including
// when the username now belongs to a different account.
func (r *IdentityResolver) CurrentUser(ctx context.Context, session *Session) (*Profile, error) {
	if session == nil || session.Username == "" {
		return nil, oops.Code("IDENTITY_NO_SESSION").Errorf("no authenticated session")
	}

	cred, err := r.credentials.FindCredential(ctx, session.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("IDENTITY_NOT_FOUND").
				With("username", session.Username).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("IDENTITY_LOOKUP_FAILED").
			With("username", session.Username).
			Wrap(err)
	}
	if cred.UserID != session.UserID {
		return nil, oops.Code("IDENTITY_NOT_FOUND").
			With("username", session.Username).
			With("session_user_id", session.UserID).
			With("user_id", cred.UserID).
			Wrap(ErrNotFound)
	}

	return &Profile{
		ID:       cred.UserID,
		Username: cred.Username,
		Fullname: cred.Fullname,
		Role:     cred.Role,
	}, nil
}
