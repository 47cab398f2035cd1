// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package access

// Capability is something a route may require of its caller.
type Capability string

// Capabilities.
const (
	CapViewHome      Capability = "home:view"
	CapManageRecords Capability = "records:manage"
	CapManageUsers   Capability = "users:manage"
)

// Capability groups. Roles compose these rather than inheriting.

var userPowers = []Capability{
	CapViewHome,
	CapManageRecords,
}

var adminPowers = []Capability{
	CapManageUsers,
}

// DefaultRoles returns the capabilities granted to each role.
func DefaultRoles() map[Role][]Capability {
	return map[Role][]Capability{
		RoleUser:  userPowers,
		RoleAdmin: compose(userPowers, adminPowers),
	}
}

// compose merges multiple capability slices into one.
func compose(groups ...[]Capability) []Capability {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	result := make([]Capability, 0, total)
	for _, g := range groups {
		result = append(result, g...)
	}
	return result
}
