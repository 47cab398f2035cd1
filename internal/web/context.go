// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package web

import (
	"context"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
)

// caller is the authenticated identity behind a request.
type caller struct {
	session   *auth.Session
	profile   *auth.Profile
	principal *access.Principal
}

type callerKey struct{}

func withCaller(ctx context.Context, c *caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// callerFrom returns the request's caller, or nil for anonymous requests.
func callerFrom(ctx context.Context) *caller {
	c, _ := ctx.Value(callerKey{}).(*caller)
	return c
}

// principalFrom returns the caller's principal, or nil.
func principalFrom(ctx context.Context) *access.Principal {
	if c := callerFrom(ctx); c != nil {
		return c.principal
	}
	return nil
}
