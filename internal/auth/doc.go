// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package auth provides authentication for the Poseiden back office.
//
// # Domain Types
//
// Sessions are created with NewSession, which validates the principal and
// expiry. Credentials are read through a CredentialStore; this package never
// writes user records.
//
// # Services
//
//   - Service - login, logout, session validation
//   - IdentityResolver - maps a session to the stored user's profile
//
// Services are created with New* constructors that validate dependencies.
package auth
