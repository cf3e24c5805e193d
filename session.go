package authflow

import (
	"context"
	"sync"
	"time"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusInitializing means the startup verification has not resolved yet
	StatusInitializing Status = "initializing"
	// StatusAuthenticated means a verified identity is present
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated means no identity is present
	StatusUnauthenticated Status = "unauthenticated"
)

// StateChange describes one session transition, delivered to the optional
// state listener after the transition is visible to readers.
type StateChange struct {
	From     Status
	To       Status
	Identity *Identity
}

// StateListener observes session transitions. Route guards re-reading the
// session is the normal path; the listener exists for shells that need a
// push signal (re-render, navigation refresh).
type StateListener func(change StateChange)

// SessionOption customizes SessionManager construction.
type SessionOption func(*SessionManager)

// WithSessionLogger overrides the logger.
func WithSessionLogger(logger Logger) SessionOption {
	return func(s *SessionManager) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionClock injects a custom clock (useful for tests).
func WithSessionClock(clock func() time.Time) SessionOption {
	return func(s *SessionManager) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithSessionActivitySink sets the ActivitySink used to publish session events.
func WithSessionActivitySink(sink ActivitySink) SessionOption {
	return func(s *SessionManager) {
		s.activitySink = normalizeActivitySink(sink)
	}
}

// WithStateListener registers a listener invoked on every transition.
func WithStateListener(listener StateListener) SessionOption {
	return func(s *SessionManager) {
		s.listener = listener
	}
}

// SessionManager is the process-wide session state machine. Construct one at
// application start and inject it; it is the single writer of session state,
// with the login flow as the only other writer through Login and Logout.
//
// The invariant held at all times: an identity is present iff the status is
// StatusAuthenticated.
type SessionManager struct {
	mu       sync.RWMutex
	status   Status
	identity *Identity
	started  bool
	closed   bool

	store        TokenStore
	client       IdentityClient
	logger       Logger
	activitySink ActivitySink
	listener     StateListener
	now          func() time.Time
}

func NewSessionManager(store TokenStore, client IdentityClient, opts ...SessionOption) *SessionManager {
	s := &SessionManager{
		status:       StatusInitializing,
		store:        store,
		client:       client,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Start runs the one-shot bootstrap: load the stored token and, when one is
// present, verify it against the identity service. It blocks until the
// session leaves StatusInitializing; run it on its own goroutine when the
// caller cannot wait. Subsequent calls are no-ops.
//
// A result that arrives after ctx is cancelled or after Close is discarded,
// so a torn-down shell never observes a late transition.
func (s *SessionManager) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	token, ok, err := s.store.Load()
	if err != nil {
		s.logger.Error("session bootstrap: token load failed: %v", err)
		s.apply(ctx, StatusUnauthenticated, nil)
		return
	}

	if !ok {
		// no token, nothing to verify
		if s.apply(ctx, StatusUnauthenticated, nil) {
			s.record(ctx, ActivityEvent{EventType: ActivityEventSessionEmpty})
		}
		return
	}

	identity, err := s.client.Verify(ctx, token)
	if err != nil {
		// expected background correction for expired sessions; clear the
		// stale token and downgrade silently
		s.logger.Debug("session bootstrap: verification failed: %v", err)
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn("session bootstrap: could not clear stale token: %v", clearErr)
		}
		if s.apply(ctx, StatusUnauthenticated, nil) {
			s.record(ctx, ActivityEvent{EventType: ActivityEventSessionRejected})
		}
		return
	}

	if s.apply(ctx, StatusAuthenticated, identity) {
		s.record(ctx, ActivityEvent{
			EventType: ActivityEventSessionRestored,
			UserID:    identity.ID.String(),
			Role:      identity.Role,
		})
	}
}

// Login transitions the session to authenticated with the given identity.
// It never touches the network or the token store; the login flow persists
// the token before calling it.
func (s *SessionManager) Login(identity Identity) {
	if s.apply(context.Background(), StatusAuthenticated, &identity) {
		s.record(context.Background(), ActivityEvent{
			EventType: ActivityEventLoginSuccess,
			UserID:    identity.ID.String(),
			Role:      identity.Role,
		})
	}
}

// Logout revokes the remote session best-effort, clears the stored token and
// moves to unauthenticated. The local teardown happens unconditionally, even
// when the remote call or the store fail.
func (s *SessionManager) Logout(ctx context.Context) {
	if token, ok, err := s.store.Load(); err == nil && ok {
		if err := s.client.Logout(ctx, token); err != nil {
			s.logger.Warn("logout: remote revocation failed, tearing down anyway: %v", err)
		}
	} else if err != nil {
		s.logger.Warn("logout: token load failed: %v", err)
	}

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("logout: could not clear token: %v", err)
	}

	if s.apply(context.Background(), StatusUnauthenticated, nil) {
		s.record(context.Background(), ActivityEvent{EventType: ActivityEventLogout})
	}
}

// Close marks the manager as torn down. Any in-flight bootstrap result is
// discarded afterwards. Readers keep seeing the last applied state.
func (s *SessionManager) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Status returns the current lifecycle state.
func (s *SessionManager) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Identity returns a copy of the current identity when authenticated.
func (s *SessionManager) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether a verified identity is present.
func (s *SessionManager) IsAuthenticated() bool {
	return s.Status() == StatusAuthenticated
}

// IsInitializing reports whether the startup verification is still pending.
func (s *SessionManager) IsInitializing() bool {
	return s.Status() == StatusInitializing
}

// apply commits a transition unless the manager was closed or the initiating
// context was cancelled while the work was in flight.
func (s *SessionManager) apply(ctx context.Context, to Status, identity *Identity) bool {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		s.logger.Debug("discarding stale session transition to %s", to)
		return false
	}

	from := s.status
	s.status = to
	s.identity = identity
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(StateChange{From: from, To: to, Identity: identity})
	}

	return true
}

func (s *SessionManager) record(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}

	sink := normalizeActivitySink(s.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("session activity sink error: %v", err)
	}
}
