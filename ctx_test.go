package authflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authflow "github.com/primersio/go-authflow"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := studentIdentity()

	ctx := authflow.WithIdentity(context.Background(), identity)

	got, ok := authflow.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)

	_, ok = authflow.IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestHasRole(t *testing.T) {
	ctx := authflow.WithIdentity(context.Background(), studentIdentity())

	assert.True(t, authflow.HasRole(ctx, authflow.RoleStudent))
	assert.False(t, authflow.HasRole(ctx, authflow.RoleAdmin))
	assert.False(t, authflow.HasRole(context.Background(), authflow.RoleStudent))
}
