package authflow

// Role is the access level carried by an Identity. It is a closed set;
// anything outside the predefined constants is invalid.
type Role string

const (
	// RoleStudent is the default learner role
	RoleStudent Role = "student"
	// RoleMentor is the advisor role
	RoleMentor Role = "mentor"
	// RoleAdmin is the administrative role
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleMentor, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role carries administrative access
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// DefaultPath returns the landing route for the role. It is the redirect
// target used when an authenticated user lacks permission for a route.
func (r Role) DefaultPath() string {
	switch r {
	case RoleMentor:
		return PathMentor
	default:
		return PathDashboard
	}
}

// AllRoles returns all predefined roles
func AllRoles() []Role {
	return []Role{
		RoleStudent,
		RoleMentor,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
