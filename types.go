package authflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated user. It is immutable
// for the life of a session and replaced wholesale on re-login.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Credentials is the payload returned by the identity service on a
// successful login or registration.
type Credentials struct {
	Token    string   `json:"token"`
	Identity Identity `json:"user"`
}

// IdentityClient talks to the remote identity service. Implementations are
// stateless; no retries are performed internally, callers decide.
type IdentityClient interface {
	Verify(ctx context.Context, token string) (*Identity, error)
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, name, email, password string) (*Credentials, error)
	Logout(ctx context.Context, token string) error
}

// TokenStore persists one opaque credential token. The token is treated as
// an opaque blob; implementations never inspect its contents. All operations
// are idempotent.
type TokenStore interface {
	Save(token string) error
	Load() (token string, ok bool, err error)
	Clear() error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHFLOW "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
