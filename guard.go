package authflow

import "sync"

// Navigation surface consumed and produced by guards and the login flow.
// These are redirect targets only; the views behind them are not owned here.
const (
	PathRoot       = "/"
	PathLogin      = "/login"
	PathAdminLogin = "/admin/login"
	PathDashboard  = "/dashboard"
	PathMentor     = "/mentor"
	PathAdmin      = "/admin"
)

// AdminDeniedNotice is attached to the root redirect when a non-admin hits
// an admin-only route.
const AdminDeniedNotice = "Access denied: admin privileges required"

// DecisionKind is the closed set of guard outcomes.
type DecisionKind string

const (
	// DecisionPending means the startup verification has not resolved; no
	// navigation decision can be made yet
	DecisionPending DecisionKind = "pending"
	// DecisionAllow means the route may render
	DecisionAllow DecisionKind = "allow"
	// DecisionRedirect means navigation must move to Target
	DecisionRedirect DecisionKind = "redirect"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Kind DecisionKind
	// Target is the redirect destination when Kind is DecisionRedirect.
	Target string
	// Intent is the path the user was trying to reach, set when the
	// redirect goes to a login entry point.
	Intent string
	// Notice carries a denial message alongside the redirect.
	Notice string
}

// Allowed reports whether the guarded route may render.
func (d Decision) Allowed() bool {
	return d.Kind == DecisionAllow
}

// Guard is a navigation-time policy over the session. All guards share the
// same prelude: while the session is initializing the decision is pending
// (never a redirect flash), and an unauthenticated user is sent to the login
// entry point with the requested path attached as intent. Role policy only
// runs after authentication passed, so a logged-out user never sees a role
// denial.
type Guard struct {
	session   *SessionManager
	loginPath string
	policy    func(identity Identity) Decision
}

// WithLoginPath overrides the login entry point the guard redirects to.
func (g Guard) WithLoginPath(path string) Guard {
	if path != "" {
		g.loginPath = path
	}
	return g
}

// Check evaluates the guard for the requested path.
func (g Guard) Check(requestedPath string) Decision {
	if g.session.IsInitializing() {
		return Decision{Kind: DecisionPending}
	}

	identity, ok := g.session.Identity()
	if !ok {
		return Decision{
			Kind:   DecisionRedirect,
			Target: g.loginPath,
			Intent: requestedPath,
		}
	}

	if g.policy == nil {
		return Decision{Kind: DecisionAllow}
	}

	return g.policy(identity)
}

// RequireAuthenticated gates a route on an authenticated session, any role.
func RequireAuthenticated(session *SessionManager) Guard {
	return Guard{
		session:   session,
		loginPath: PathLogin,
	}
}

// RequireRole gates a route on the identity's role being in the allowed set.
// Authenticated users outside the set are sent to their role's default
// landing path, not back to login.
func RequireRole(session *SessionManager, allowed ...Role) Guard {
	set := make(map[Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return Guard{
		session:   session,
		loginPath: PathLogin,
		policy: func(identity Identity) Decision {
			if _, ok := set[identity.Role]; ok {
				return Decision{Kind: DecisionAllow}
			}
			return Decision{
				Kind:   DecisionRedirect,
				Target: identity.Role.DefaultPath(),
			}
		},
	}
}

// RequireAdmin gates a route on the admin role. Authenticated non-admins are
// sent to the application root with a denial notice.
func RequireAdmin(session *SessionManager) Guard {
	return Guard{
		session:   session,
		loginPath: PathLogin,
		policy: func(identity Identity) Decision {
			if identity.Role.IsAdmin() {
				return Decision{Kind: DecisionAllow}
			}
			return Decision{
				Kind:   DecisionRedirect,
				Target: PathRoot,
				Notice: AdminDeniedNotice,
			}
		},
	}
}

// IntentStash holds the navigation intent captured at redirect time. It is
// consumed once and never persisted across restarts.
type IntentStash struct {
	mu   sync.Mutex
	path string
}

func NewIntentStash() *IntentStash {
	return &IntentStash{}
}

// Set records the path the user was trying to reach.
func (s *IntentStash) Set(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

// Consume returns the stored path and clears it.
func (s *IntentStash) Consume() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path
	s.path = ""
	return path, path != ""
}
