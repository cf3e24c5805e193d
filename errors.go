package authflow

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidToken       = "INVALID_TOKEN"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeNetworkError       = "NETWORK_ERROR"
	textCodeServerError        = "SERVER_ERROR"
	textCodeValidationError    = "VALIDATION_ERROR"
	textCodeRoleMismatch       = "ROLE_MISMATCH"
	textCodeRoleNotSelected    = "ROLE_NOT_SELECTED"
	textCodeModeLocked         = "MODE_LOCKED"
	textCodeUnknownRole        = "UNKNOWN_ROLE"
)

// ErrInvalidToken is returned when the identity service rejects a stored token.
var ErrInvalidToken = goerrors.New("token rejected by identity service", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials is returned when the identity service rejects an
// email/password pair.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrNetwork is returned on transport failures, when no response was received.
var ErrNetwork = goerrors.New("identity service unreachable", goerrors.CategoryOperation).
	WithTextCode(textCodeNetworkError)

// ErrServer is returned when the identity service responded but failed.
var ErrServer = goerrors.New("identity service error", goerrors.CategoryInternal).
	WithTextCode(textCodeServerError).
	WithCode(goerrors.CodeInternal)

// ErrValidation is returned when the identity service rejects a registration
// payload (taken email, malformed fields). The service reports the reason as
// a message string, not typed subfields; the message is carried verbatim.
var ErrValidation = goerrors.New("registration rejected", goerrors.CategoryValidation).
	WithTextCode(textCodeValidationError).
	WithCode(goerrors.CodeBadRequest)

// ErrRoleMismatch is returned when the authenticated identity's role does not
// match the role selected for the login attempt.
var ErrRoleMismatch = goerrors.New("role does not match selection", goerrors.CategoryAuthz).
	WithTextCode(textCodeRoleMismatch).
	WithCode(goerrors.CodeForbidden)

// ErrRoleNotSelected is returned when a flow is submitted before a role was picked.
var ErrRoleNotSelected = goerrors.New("no role selected for login attempt", goerrors.CategoryOperation).
	WithTextCode(textCodeRoleNotSelected)

// ErrModeLocked is returned when switching to register on an admin attempt.
var ErrModeLocked = goerrors.New("mode is locked to login for this attempt", goerrors.CategoryConflict).
	WithTextCode(textCodeModeLocked).
	WithCode(goerrors.CodeConflict)

// ErrUnknownRole is returned when a role outside the closed set is selected.
var ErrUnknownRole = goerrors.New("unknown role", goerrors.CategoryBadInput).
	WithTextCode(textCodeUnknownRole).
	WithCode(goerrors.CodeBadRequest)

// IsInvalidToken will check for verification rejections
func IsInvalidToken(err error) bool {
	return hasTextCode(err, textCodeInvalidToken)
}

// IsInvalidCredentials will check for rejected email/password pairs
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, textCodeInvalidCredentials)
}

// IsNetworkError will check for transport failures
func IsNetworkError(err error) bool {
	return hasTextCode(err, textCodeNetworkError)
}

// IsServerError will check for remote service failures
func IsServerError(err error) bool {
	return hasTextCode(err, textCodeServerError)
}

// IsValidationError will check for remote registration rejections
func IsValidationError(err error) bool {
	return hasTextCode(err, textCodeValidationError)
}

// IsRoleMismatch will check for role cross-check denials
func IsRoleMismatch(err error) bool {
	return hasTextCode(err, textCodeRoleMismatch)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// describeErr clones a sentinel error with a service-provided message while
// keeping the sentinel reachable through the source chain.
func describeErr(base *goerrors.Error, message string, metadata map[string]any) error {
	clone := base.Clone()
	if clone == nil {
		return base
	}
	if message != "" {
		clone.Message = message
	}
	clone.Source = base
	if len(metadata) > 0 {
		return clone.WithMetadata(metadata)
	}
	return clone
}
