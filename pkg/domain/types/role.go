package types

// Role is a directory decoration tag. It never affects permissions inside this subsystem.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleDeveloper,
		RoleUser,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin,
		RoleDeveloper,
		RoleUser:
		return true
	default:
		return false
	}
}

// Normalize maps unknown and empty roles to RoleUser
func (r Role) Normalize() Role {
	if !r.IsValid() {
		return RoleUser
	}
	return r
}

// Badge returns the short label shown next to a suggestion. Plain users get no badge.
func (r Role) Badge() string {
	switch r.Normalize() {
	case RoleAdmin:
		return "Admin"
	case RoleDeveloper:
		return "Dev"
	default:
		return ""
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
