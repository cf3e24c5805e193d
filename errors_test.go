package authflow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	authflow "github.com/primersio/go-authflow"
)

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"invalid token", authflow.ErrInvalidToken, authflow.IsInvalidToken},
		{"invalid credentials", authflow.ErrInvalidCredentials, authflow.IsInvalidCredentials},
		{"network", authflow.ErrNetwork, authflow.IsNetworkError},
		{"server", authflow.ErrServer, authflow.IsServerError},
		{"validation", authflow.ErrValidation, authflow.IsValidationError},
		{"role mismatch", authflow.ErrRoleMismatch, authflow.IsRoleMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.predicate(tc.err))
		})
	}
}

func TestErrorPredicatesRejectOtherKinds(t *testing.T) {
	assert.False(t, authflow.IsInvalidToken(nil))
	assert.False(t, authflow.IsInvalidToken(errors.New("plain error")))
	assert.False(t, authflow.IsInvalidToken(authflow.ErrNetwork))
	assert.False(t, authflow.IsNetworkError(authflow.ErrServer))
	assert.False(t, authflow.IsServerError(authflow.ErrInvalidCredentials))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, authflow.ErrInvalidCredentials.Error(), "invalid email or password")
	assert.Contains(t, authflow.ErrNetwork.Error(), "unreachable")
}
