// Package authflow is a client-resident authentication and role-based
// access-control layer for application shells that delegate credential
// verification to a remote identity service.
//
// Session lifecycle:
//   - SessionManager is the process-wide tri-state session record
//     (initializing, authenticated, unauthenticated). Construct it once at
//     application start, call Start to run the silent re-verification of a
//     persisted token, and inject it wherever navigation decisions happen.
//     It is the single writer of session state; LoginFlow is the only other
//     writer, through the Login and Logout mutators.
//
// Route guards:
//   - RequireAuthenticated, RequireRole and RequireAdmin produce navigation
//     decisions from the session. Authentication is always checked before
//     role, and no decision is made while verification is pending, so a
//     redirect never flashes before the session settles. GuardMiddleware
//     mounts a guard on a go-router application.
//
// Login orchestration:
//   - LoginFlow runs the role-gated login/registration flow: role selection,
//     field-scoped form validation, the remote call, the role cross-check and
//     the post-login redirect, restoring the navigation intent captured by a
//     guard when one exists. NewAdminLoginFlow is the admin-only entry point
//     that skips role selection.
//
// Tokens are opaque: TokenStore persists one credential blob (file, memory
// or Redis backed) and nothing in this package ever inspects it.
package authflow
