package domain

import "sort"

// Permission is a fine-grained capability tag gating a single console action.
type Permission string

const (
	PermRunAutomation     Permission = "run:automation"
	PermApproveAutomation Permission = "approve:automation"
	PermExportAnalytics   Permission = "export:analytics"
	PermPostChatOps       Permission = "post:chatops"
	PermManageUsers       Permission = "manage:users"
	PermInjectSynthetic   Permission = "inject:synthetic"
	PermViewAudit         Permission = "view:audit"
)

var allPermissions = []Permission{
	PermRunAutomation,
	PermApproveAutomation,
	PermExportAnalytics,
	PermPostChatOps,
	PermManageUsers,
	PermInjectSynthetic,
	PermViewAudit,
}

type permissionSet map[Permission]struct{}

func newPermissionSet(perms ...Permission) permissionSet {
	set := make(permissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// rolePermissions is static configuration; it is never mutated after init.
var rolePermissions = map[Role]permissionSet{
	RoleAdmin: newPermissionSet(allPermissions...),
	RoleOperator: newPermissionSet(
		PermRunAutomation,
		PermApproveAutomation,
		PermExportAnalytics,
		PermPostChatOps,
	),
	RoleExecutive: newPermissionSet(PermExportAnalytics),
	RoleObserver:  newPermissionSet(),
}

// Permissions returns every known permission tag.
func Permissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// Valid reports whether p is a known permission tag.
func (p Permission) Valid() bool {
	for _, known := range allPermissions {
		if known == p {
			return true
		}
	}
	return false
}

// ParsePermission converts a tag into a Permission.
func ParsePermission(value string) (Permission, error) {
	p := Permission(value)
	if !p.Valid() {
		return "", NewError(ErrCodeInvalid, "unknown permission "+value)
	}
	return p, nil
}

// PermissionsOf returns the sorted permission tags held by role.
func PermissionsOf(role Role) []Permission {
	set := rolePermissions[role]
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsAuthorized reports whether role holds permission.
func IsAuthorized(role Role, permission Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}
