package enum

import "strings"

// Role is the closed set of actor roles the sale core reasons about.
// Role names arrive from the identity layer as free-form strings and are
// normalized exactly once at the boundary.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

func (r Role) String() string {
	return string(r)
}

// NormalizeRole maps a raw role string to a Role. Unknown role names fall
// back to cashier, the lowest-privilege role.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "super-admin":
		return RoleAdmin
	default:
		return RoleCashier
	}
}

// NormalizeRoles returns the highest-privilege role found in raw role names.
func NormalizeRoles(raw []string) Role {
	role := RoleCashier
	for _, r := range raw {
		if NormalizeRole(r) == RoleAdmin {
			role = RoleAdmin
		}
	}
	return role
}
