// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// ErrNotFound is wrapped by every error reporting a missing record.
var ErrNotFound = errors.New("not found")

// ValidationError reports a structurally invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFound returns the ENTITY_NOT_FOUND error for kind and id.
func NotFound(kind string, id int64) error {
	return oops.Code("ENTITY_NOT_FOUND").
		With("entity", kind).
		With("id", id).
		Wrapf(ErrNotFound, "%s %d", kind, id)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NotFoundID returns the id carried by a NotFound error.
func NotFoundID(err error) (int64, bool) {
	if !IsNotFound(err) {
		return 0, false
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return 0, false
	}
	id, ok := oopsErr.Context()["id"].(int64)
	return id, ok
}

// AsValidationError extracts the *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Check runs e.Validate and returns any failure as an ENTITY_INVALID error.
func Check[T Entity[T]](e T) error {
	err := e.Validate()
	if err == nil {
		return nil
	}
	if ve, ok := AsValidationError(err); ok {
		return invalid(e.Kind(), ve)
	}
	return oops.Code("ENTITY_INVALID").With("entity", e.Kind()).Wrap(err)
}

func invalid(kind string, ve *ValidationError) error {
	return oops.Code("ENTITY_INVALID").
		With("entity", kind).
		With("field", ve.Field).
		Wrap(ve)
}

func required(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func positive(field string, value float64) *ValidationError {
	if value <= 0 {
		return &ValidationError{Field: field, Message: "must be greater than zero"}
	}
	return nil
}

// firstInvalid returns the first non-nil result as an error, or nil.
func firstInvalid(checks ...*ValidationError) error {
	for _, ve := range checks {
		if ve != nil {
			return ve
		}
	}
	return nil
}

// NotFoundByName is NotFound for lookups by a unique name rather than id.
func NotFoundByName(kind, name string) error {
	return oops.Code("ENTITY_NOT_FOUND").
		With("entity", kind).
		With("name", name).
		Wrapf(ErrNotFound, "%s %q", kind, name)
}
