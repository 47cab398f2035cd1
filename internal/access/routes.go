// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package access

// Well-known paths and redirect targets.
const (
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathLogout    = "/app-logout"
	PathForbidden = "/403"
	PathHome      = "/admin/home"

	LoginErrorURL = PathLogin + "?error=true"
	LoggedOutURL  = PathLogin + "?logout"
)

// ForbiddenMessage is shown on the forbidden view.
const ForbiddenMessage = "You are not authorized for the requested data."

// RouteRule requires Capability of callers whose path matches Pattern.
// An empty Capability only requires an authenticated caller.
type RouteRule struct {
	Pattern    string
	Capability Capability
}

// Table classifies request paths. Patterns are globs with '/' as separator.
type Table struct {
	// Public paths need no session.
	Public []string
	// Logout ends the session and is reachable with or without one.
	Logout string
	// Rules are matched in order; the first match wins. Paths matching no
	// rule only require authentication.
	Rules []RouteRule
}

// DefaultTable returns the route classification of the back office.
func DefaultTable() Table {
	return Table{
		Public: []string{
			PathLogin,
			"/app/login",
			PathRegister,
			"/style/**",
			"/js/**",
		},
		Logout: PathLogout,
		Rules: []RouteRule{
			{Pattern: "/user/**", Capability: CapManageUsers},
			{Pattern: "/app/secure/**", Capability: CapManageUsers},
			{Pattern: PathHome, Capability: CapViewHome},
			{Pattern: "/{bidList,curvePoint,rating,ruleName,trade}/**", Capability: CapManageRecords},
			{Pattern: PathForbidden},
		},
	}
}
