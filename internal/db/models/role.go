package models

// Role represents an account role. It is a closed set: input outside the
// three known values is normalized to RoleUser at the boundary.
type Role string

const (
	// RoleUser is the default role for regular accounts.
	RoleUser Role = "user"
	// RoleAdmin is the role for administrative accounts.
	RoleAdmin Role = "admin"
	// RoleMasterAdmin is the role for top-level administrative accounts.
	RoleMasterAdmin Role = "master_admin"
)

// RoleInfo carries a role together with its optional human-readable title
// (e.g. "Dean" or "IT_Admin").
type RoleInfo struct {
	Role  Role   `json:"role"`
	Title string `json:"title,omitempty"`
}

// NormalizeRole maps unrecognized input to RoleUser.
func NormalizeRole(r Role) Role {
	switch r {
	case RoleUser, RoleAdmin, RoleMasterAdmin:
		return r
	default:
		return RoleUser
	}
}

// Normalize returns a copy with the role constrained to the closed set.
func (ri RoleInfo) Normalize() RoleInfo {
	ri.Role = NormalizeRole(ri.Role)
	return ri
}
