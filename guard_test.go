package authflow_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authflow "github.com/primersio/go-authflow"
)

func unauthenticatedSession(t *testing.T) *authflow.SessionManager {
	t.Helper()
	sm := authflow.NewSessionManager(authflow.NewMemoryTokenStore(), &MockIdentityClient{})
	sm.Start(context.Background())
	require.Equal(t, authflow.StatusUnauthenticated, sm.Status())
	return sm
}

func authenticatedSession(t *testing.T, role authflow.Role) *authflow.SessionManager {
	t.Helper()
	sm := authflow.NewSessionManager(authflow.NewMemoryTokenStore(), &MockIdentityClient{})
	sm.Start(context.Background())
	sm.Login(authflow.Identity{
		ID:    uuid.New(),
		Name:  "Guard Subject",
		Email: "subject@example.com",
		Role:  role,
	})
	return sm
}

func TestGuardPendingWhileInitializing(t *testing.T) {
	sm := authflow.NewSessionManager(authflow.NewMemoryTokenStore(), &MockIdentityClient{})
	// Start never ran; verification is still pending

	for _, guard := range []authflow.Guard{
		authflow.RequireAuthenticated(sm),
		authflow.RequireRole(sm, authflow.RoleStudent),
		authflow.RequireAdmin(sm),
	} {
		decision := guard.Check(authflow.PathDashboard)
		assert.Equal(t, authflow.DecisionPending, decision.Kind)
		assert.Empty(t, decision.Target, "no redirect may flash before verification resolves")
	}
}

func TestGuardRedirectsUnauthenticatedToLoginWithIntent(t *testing.T) {
	sm := unauthenticatedSession(t)

	decision := authflow.RequireAuthenticated(sm).Check(authflow.PathDashboard)

	assert.Equal(t, authflow.DecisionRedirect, decision.Kind)
	assert.Equal(t, authflow.PathLogin, decision.Target)
	assert.Equal(t, authflow.PathDashboard, decision.Intent)
}

func TestGuardAuthenticationCheckedBeforeRole(t *testing.T) {
	sm := unauthenticatedSession(t)

	// a logged-out user gets a login redirect, never a role denial
	decision := authflow.RequireAdmin(sm).Check(authflow.PathAdmin)

	assert.Equal(t, authflow.DecisionRedirect, decision.Kind)
	assert.Equal(t, authflow.PathLogin, decision.Target)
	assert.Equal(t, authflow.PathAdmin, decision.Intent)
	assert.Empty(t, decision.Notice)
}

func TestGuardAllowsAuthenticated(t *testing.T) {
	sm := authenticatedSession(t, authflow.RoleStudent)

	decision := authflow.RequireAuthenticated(sm).Check(authflow.PathDashboard)
	assert.True(t, decision.Allowed())
}

func TestRoleGuardLaw(t *testing.T) {
	cases := []struct {
		name     string
		role     authflow.Role
		allowed  []authflow.Role
		expected authflow.Decision
	}{
		{
			name:     "student on student route",
			role:     authflow.RoleStudent,
			allowed:  []authflow.Role{authflow.RoleStudent},
			expected: authflow.Decision{Kind: authflow.DecisionAllow},
		},
		{
			name:    "mentor on student route lands on mentor home",
			role:    authflow.RoleMentor,
			allowed: []authflow.Role{authflow.RoleStudent},
			expected: authflow.Decision{
				Kind:   authflow.DecisionRedirect,
				Target: authflow.PathMentor,
			},
		},
		{
			name:     "mentor on mentor route",
			role:     authflow.RoleMentor,
			allowed:  []authflow.Role{authflow.RoleMentor},
			expected: authflow.Decision{Kind: authflow.DecisionAllow},
		},
		{
			name:    "student on mentor route lands on dashboard",
			role:    authflow.RoleStudent,
			allowed: []authflow.Role{authflow.RoleMentor},
			expected: authflow.Decision{
				Kind:   authflow.DecisionRedirect,
				Target: authflow.PathDashboard,
			},
		},
		{
			name:    "admin outside the allowed set lands on dashboard",
			role:    authflow.RoleAdmin,
			allowed: []authflow.Role{authflow.RoleStudent, authflow.RoleMentor},
			expected: authflow.Decision{
				Kind:   authflow.DecisionRedirect,
				Target: authflow.PathDashboard,
			},
		},
		{
			name:     "multi-role set admits mentor",
			role:     authflow.RoleMentor,
			allowed:  []authflow.Role{authflow.RoleStudent, authflow.RoleMentor},
			expected: authflow.Decision{Kind: authflow.DecisionAllow},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sm := authenticatedSession(t, tc.role)
			decision := authflow.RequireRole(sm, tc.allowed...).Check(authflow.PathDashboard)
			assert.Equal(t, tc.expected.Kind, decision.Kind)
			assert.Equal(t, tc.expected.Target, decision.Target)
		})
	}
}

func TestAdminGuardSendsNonAdminToRootWithNotice(t *testing.T) {
	sm := authenticatedSession(t, authflow.RoleStudent)

	decision := authflow.RequireAdmin(sm).Check(authflow.PathAdmin)

	assert.Equal(t, authflow.DecisionRedirect, decision.Kind)
	assert.Equal(t, authflow.PathRoot, decision.Target)
	assert.Equal(t, authflow.AdminDeniedNotice, decision.Notice)
	assert.Empty(t, decision.Intent, "an authenticated user keeps no login intent")
}

func TestAdminGuardAllowsAdmin(t *testing.T) {
	sm := authenticatedSession(t, authflow.RoleAdmin)

	decision := authflow.RequireAdmin(sm).Check(authflow.PathAdmin)
	assert.True(t, decision.Allowed())
}

func TestGuardCustomLoginPath(t *testing.T) {
	sm := unauthenticatedSession(t)

	decision := authflow.RequireAdmin(sm).
		WithLoginPath(authflow.PathAdminLogin).
		Check(authflow.PathAdmin)

	assert.Equal(t, authflow.PathAdminLogin, decision.Target)
	assert.Equal(t, authflow.PathAdmin, decision.Intent)
}

func TestIntentStashConsumesOnce(t *testing.T) {
	stash := authflow.NewIntentStash()

	_, ok := stash.Consume()
	assert.False(t, ok)

	stash.Set(authflow.PathDashboard)

	path, ok := stash.Consume()
	require.True(t, ok)
	assert.Equal(t, authflow.PathDashboard, path)

	_, ok = stash.Consume()
	assert.False(t, ok, "intent is consumed exactly once")
}
