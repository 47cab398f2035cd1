// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package web

import (
	"errors"
	"net"
	"net/http"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/observability"
	"github.com/poseiden/backoffice/internal/users"
)

// loginView is rendered for GET /login.
type loginView struct {
	Error     bool `json:"error"`
	LoggedOut bool `json:"logout"`
}

func (s *Server) handleLoginView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, loginView{
		Error:     q.Has("error"),
		LoggedOut: q.Has("logout"),
	})
}

// handleLogin authenticates the form fields username and password. Any
// credential failure redirects to the login error view; the caller cannot
// tell an unknown user from a wrong password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, badRequest("malformed form", err))
		return
	}

	session, token, err := s.auth.Login(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
		r.UserAgent(),
		clientIP(r),
	)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.metrics.ObserveLogin(observability.LoginRejected)
		http.Redirect(w, r, access.LoginErrorURL, http.StatusFound)
		return
	case err != nil:
		s.metrics.ObserveLogin(observability.LoginErrored)
		s.fail(w, r, err)
		return
	}

	s.metrics.ObserveLogin(observability.LoginSucceeded)
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, access.PathHome, http.StatusFound)
}

// handleLogout ends the caller's session, if any, and always lands on the
// logged-out view.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c := callerFrom(r.Context()); c != nil {
		if err := s.auth.Logout(r.Context(), c.session); err != nil && !errors.Is(err, auth.ErrNotFound) {
			s.fail(w, r, err)
			return
		}
	}
	s.clearCookie(w)
	http.Redirect(w, r, access.LoggedOutURL, http.StatusFound)
}

// handleRegister creates a USER account from the form fields username,
// password and fullname.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, badRequest("malformed form", err))
		return
	}

	password := r.PostFormValue("password")
	if err := users.ValidatePasswordPolicy(password); err != nil {
		s.fail(w, r, err)
		return
	}

	created, err := s.users.Create(r.Context(), entity.User{
		Username: r.PostFormValue("username"),
		Password: password,
		Fullname: r.PostFormValue("fullname"),
		Role:     access.RoleUser,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentUser(created))
}

func (s *Server) handleForbidden(w http.ResponseWriter, _ *http.Request) {
	writeForbidden(w, access.ForbiddenMessage)
}

// handleHome returns the current user's profile.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r.Context())
	if c == nil {
		http.Redirect(w, r, access.LoginErrorURL, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, c.profile)
}

// handleArticleDetails lists every account for administrators.
func (s *Server) handleArticleDetails(w http.ResponseWriter, r *http.Request) {
	all, err := s.users.FindAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]userForm, 0, len(all))
	for _, u := range all {
		out = append(out, presentUser(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// clientIP strips the port from RemoteAddr, which RealIP has already
// replaced with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
