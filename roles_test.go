package authflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authflow "github.com/primersio/go-authflow"
)

func TestRoleIsValid(t *testing.T) {
	for _, role := range authflow.AllRoles() {
		assert.True(t, role.IsValid(), string(role))
	}

	assert.False(t, authflow.Role("").IsValid())
	assert.False(t, authflow.Role("superuser").IsValid())
	assert.False(t, authflow.Role("Admin").IsValid(), "roles are case sensitive")
}

func TestParseRole(t *testing.T) {
	role, ok := authflow.ParseRole("mentor")
	require.True(t, ok)
	assert.Equal(t, authflow.RoleMentor, role)

	_, ok = authflow.ParseRole("owner")
	assert.False(t, ok)
}

func TestRoleDefaultPath(t *testing.T) {
	assert.Equal(t, authflow.PathMentor, authflow.RoleMentor.DefaultPath())
	assert.Equal(t, authflow.PathDashboard, authflow.RoleStudent.DefaultPath())
	assert.Equal(t, authflow.PathDashboard, authflow.RoleAdmin.DefaultPath())
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, authflow.RoleAdmin.IsAdmin())
	assert.False(t, authflow.RoleStudent.IsAdmin())
	assert.False(t, authflow.RoleMentor.IsAdmin())
}
