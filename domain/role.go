package domain

import "strings"

// Role is the baseline access class of a console user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOperator  Role = "operator"
	RoleExecutive Role = "executive"
	RoleObserver  Role = "observer"
)

var allRoles = []Role{RoleAdmin, RoleOperator, RoleExecutive, RoleObserver}

// Roles returns every known role in display order.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleExecutive, RoleObserver:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a case-insensitive role name into a Role.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", NewError(ErrCodeInvalid, "unknown role "+value)
	}
	return role, nil
}

// HasRole reports whether role is a member of allow.
func HasRole(role Role, allow ...Role) bool {
	if !role.Valid() {
		return false
	}
	for _, candidate := range allow {
		if candidate == role {
			return true
		}
	}
	return false
}
