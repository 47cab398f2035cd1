// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/observability"
	"github.com/poseiden/backoffice/pkg/errutil"
)

// traceContext reads W3C traceparent headers.
var traceContext = propagation.TraceContext{}

// instrument traces every request and records it in the HTTP metrics,
// labelled by the chi route pattern. An incoming traceparent header becomes
// the parent of the request span.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := traceContext.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := s.tracer.Start(ctx, "http.request",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		span.SetName("http.request " + r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		s.metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}

// authenticate resolves the session cookie into a caller. Requests without
// a usable session continue anonymously; access control decides whether
// that is enough.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		session, err := s.auth.ValidateSession(ctx, cookie.Value)
		if err != nil {
			if errutil.HasCode(err, "SESSION_VALIDATE_FAILED") {
				s.fail(w, r, err)
				return
			}
			s.clearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		profile, err := s.identity.CurrentUser(ctx, session)
		if err != nil {
			if !errors.Is(err, auth.ErrNotFound) {
				s.fail(w, r, err)
				return
			}
			// The account was deleted after login.
			if logoutErr := s.auth.Logout(ctx, session); logoutErr != nil && !errors.Is(logoutErr, auth.ErrNotFound) {
				errutil.LogWarnContext(ctx, s.logger, "failed to drop session of deleted user", logoutErr)
			}
			observability.RecordSessionInvalidated("user_deleted")
			s.clearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		role, err := access.ParseRole(profile.Role)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		c := &caller{
			session:   session,
			profile:   profile,
			principal: &access.Principal{Username: profile.Username, Role: role},
		}
		next.ServeHTTP(w, r.WithContext(withCaller(ctx, c)))
	})
}

// authorize applies the access controller's decision for the request path.
func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := principalFrom(r.Context())
		decision := s.access.Decide(r.URL.Path, principal)

		switch decision.Outcome {
		case access.OutcomeAllow, access.OutcomeLogout:
			next.ServeHTTP(w, r)
		case access.OutcomeRedirectLogin:
			http.Redirect(w, r, decision.Location, http.StatusFound)
		case access.OutcomeForbidden:
			s.logger.InfoContext(r.Context(), "access denied",
				"path", r.URL.Path,
				"username", principal.Username,
				"role", principal.Role.String(),
				"capability", string(decision.Required),
			)
			writeForbidden(w, decision.Message)
		default:
			s.fail(w, r, oops.Code("ACCESS_UNKNOWN_OUTCOME").
				With("outcome", decision.Outcome.String()).
				Errorf("unhandled access outcome"))
		}
	})
}
