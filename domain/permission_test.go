package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePermissionTable(t *testing.T) {
	tests := []struct {
		role    Role
		allowed []Permission
	}{
		{RoleAdmin, Permissions()},
		{RoleOperator, []Permission{PermRunAutomation, PermApproveAutomation, PermExportAnalytics, PermPostChatOps}},
		{RoleExecutive, []Permission{PermExportAnalytics}},
		{RoleObserver, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			allowed := map[Permission]bool{}
			for _, p := range tt.allowed {
				allowed[p] = true
			}
			for _, p := range Permissions() {
				assert.Equal(t, allowed[p], IsAuthorized(tt.role, p), "permission %s", p)
			}
			assert.Len(t, PermissionsOf(tt.role), len(tt.allowed))
		})
	}
}

func TestIsAuthorized_UnknownRole(t *testing.T) {
	assert.False(t, IsAuthorized(Role("root"), PermRunAutomation))
	assert.Empty(t, PermissionsOf(Role("root")))
}

func TestPermissionsOf_SortedCopy(t *testing.T) {
	perms := PermissionsOf(RoleAdmin)
	for i := 1; i < len(perms); i++ {
		assert.True(t, perms[i-1] < perms[i])
	}
	perms[0] = "tampered"
	assert.NotContains(t, PermissionsOf(RoleAdmin), Permission("tampered"))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Operator ")
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, role)

	_, err = ParseRole("superuser")
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestParsePermission(t *testing.T) {
	p, err := ParsePermission("post:chatops")
	require.NoError(t, err)
	assert.Equal(t, PermPostChatOps, p)

	_, err = ParsePermission("post:chatop")
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(RoleAdmin, RoleOperator, RoleAdmin))
	assert.False(t, HasRole(RoleObserver, RoleAdmin))
	assert.False(t, HasRole(RoleObserver))
	assert.False(t, HasRole(Role("ghost"), Role("ghost")))
}

func TestSessionState(t *testing.T) {
	var nilSession *Session
	assert.Equal(t, SessionUnhydrated, nilSession.State())
	assert.Equal(t, SessionUnhydrated, (&Session{User: &User{}}).State())
	assert.Equal(t, SessionNoUser, (&Session{Hydrated: true}).State())
	assert.Equal(t, SessionWithUser, (&Session{Hydrated: true, User: &User{}}).State())
}
