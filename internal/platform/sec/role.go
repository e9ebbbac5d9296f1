// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Roles

// UserRole is the authorization level carried in a token's "rol" claim.
type UserRole string

const (
	// Manages the asset catalog (upload, replace, delete)
	RoleAdmin UserRole = "admin"

	// Read-only API access, used by monitoring and preview tooling
	RoleViewer UserRole = "viewer"
)

// Valid reports whether r is a role this service issues.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() > 0 && r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
