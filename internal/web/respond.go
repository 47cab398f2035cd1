// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/users"
	"github.com/poseiden/backoffice/pkg/errutil"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// forbiddenBody is the forbidden view.
type forbiddenBody struct {
	ErrorMsg string `json:"errorMsg"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	//nolint:errcheck // client may have gone away
	json.NewEncoder(w).Encode(v)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, forbiddenBody{ErrorMsg: message})
}

// statusFor maps a service error to the HTTP status it is reported with.
func statusFor(err error) int {
	if _, ok := entity.AsValidationError(err); ok {
		return http.StatusBadRequest
	}
	switch {
	case entity.IsNotFound(err), errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, users.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an errorBody. Server-side failures are logged and
// their detail is withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		errutil.LogErrorContext(r.Context(), s.logger.With("method", r.Method, "path", r.URL.Path), "request failed", err)
		writeJSON(w, status, errorBody{Error: http.StatusText(status)})
		return
	}
	if status == http.StatusForbidden {
		writeForbidden(w, access.ForbiddenMessage)
		return
	}

	body := errorBody{Error: err.Error(), Code: errutil.Code(err)}
	if ve, ok := entity.AsValidationError(err); ok {
		body.Error = ve.Error()
		body.Field = ve.Field
	}
	writeJSON(w, status, body)
}
