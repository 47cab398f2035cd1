// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package access

import (
	"strings"

	"github.com/samber/oops"
)

// Role is the closed set of account roles.
type Role string

// Roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Roles returns every defined role.
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// ParseRole parses s case-insensitively. A leading "ROLE_" is accepted.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "ROLE_")
	r := Role(name)
	if !r.Valid() {
		return "", oops.Code("ACCESS_UNKNOWN_ROLE").With("role", s).Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
