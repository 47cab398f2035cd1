// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested session or credential does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is wrapped by every failed login, whether the username
// was unknown or the password did not match.
var ErrInvalidCredentials = errors.New("invalid username or password")
