package authflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// FlowMode selects between signing in and creating an account.
type FlowMode string

const (
	ModeLogin    FlowMode = "login"
	ModeRegister FlowMode = "register"
)

// FlowEventKind is the closed set of orchestration events.
type FlowEventKind string

const (
	EventModeSwitched  FlowEventKind = "flow.mode.switched"
	EventAuthSucceeded FlowEventKind = "flow.auth.succeeded"
	EventAuthFailed    FlowEventKind = "flow.auth.failed"
	EventRoleDenied    FlowEventKind = "flow.role.denied"
)

// FlowEvent is a tagged event emitted by the login flow. Exactly one of the
// payload fields is meaningful per kind: Mode for EventModeSwitched,
// Identity and RedirectTo for EventAuthSucceeded, Message for the failures.
type FlowEvent struct {
	Kind       FlowEventKind
	Mode       FlowMode
	Identity   *Identity
	RedirectTo string
	Message    string
}

// FlowHandlers dispatches flow events, one explicit handler per kind.
// Nil handlers are skipped.
type FlowHandlers struct {
	OnModeSwitched  func(mode FlowMode)
	OnAuthSucceeded func(identity Identity, redirectTo string)
	OnAuthFailed    func(message string)
	OnRoleDenied    func(message string)
}

func (h FlowHandlers) dispatch(event FlowEvent) {
	switch event.Kind {
	case EventModeSwitched:
		if h.OnModeSwitched != nil {
			h.OnModeSwitched(event.Mode)
		}
	case EventAuthSucceeded:
		if h.OnAuthSucceeded != nil && event.Identity != nil {
			h.OnAuthSucceeded(*event.Identity, event.RedirectTo)
		}
	case EventAuthFailed:
		if h.OnAuthFailed != nil {
			h.OnAuthFailed(event.Message)
		}
	case EventRoleDenied:
		if h.OnRoleDenied != nil {
			h.OnRoleDenied(event.Message)
		}
	}
}

// Form carries the credential form fields. Name and ConfirmPassword are only
// consulted in register mode.
type Form struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password"`
}

func (f Form) validate(mode FlowMode) error {
	fields := []*validation.FieldRules{
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required, validation.Length(6, 0)),
	}

	if mode == ModeRegister {
		fields = append(fields,
			validation.Field(&f.Name, validation.Required, validation.Length(2, 0)),
			validation.Field(
				&f.ConfirmPassword,
				validation.Required,
				validation.By(validateStringEquals(f.Password)),
			),
		)
	}

	return validation.ValidateStruct(&f, fields...)
}

func validateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// FlowResult is the renderable outcome of a submit. Exactly one of the
// outcomes is set: field errors, a general message, a denial, or a redirect.
type FlowResult struct {
	// RedirectTo is set on success.
	RedirectTo string
	// Identity is set on success.
	Identity *Identity
	// FieldErrors is set when client-side validation blocked the submit.
	FieldErrors map[string]string
	// Message is a user-facing failure or denial message.
	Message string
	// Denied marks a role-mismatch denial.
	Denied bool
}

// Ok reports whether the submit authenticated and navigation may proceed.
func (r *FlowResult) Ok() bool {
	return r != nil && r.RedirectTo != ""
}

// FlowOption customizes LoginFlow construction.
type FlowOption func(*LoginFlow)

// WithFlowLogger overrides the logger.
func WithFlowLogger(logger Logger) FlowOption {
	return func(f *LoginFlow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFlowHandlers registers the event handlers.
func WithFlowHandlers(handlers FlowHandlers) FlowOption {
	return func(f *LoginFlow) {
		f.handlers = handlers
	}
}

// WithIntentStash wires the navigation intent captured by guards so a
// successful login can resume the interrupted navigation.
func WithIntentStash(stash *IntentStash) FlowOption {
	return func(f *LoginFlow) {
		f.intents = stash
	}
}

// WithFlowDebug enables payload logging on submits.
func WithFlowDebug(debug bool) FlowOption {
	return func(f *LoginFlow) {
		f.debug = debug
	}
}

// LoginFlow orchestrates the role-gated login/registration flow: role
// selection, credential form, submit, role cross-check, redirect. One flow
// value models one login surface; it may serve any number of attempts.
type LoginFlow struct {
	mu           sync.Mutex
	role         Role
	roleSelected bool
	roleLocked   bool
	mode         FlowMode
	busy         bool

	session  *SessionManager
	client   IdentityClient
	store    TokenStore
	intents  *IntentStash
	logger   Logger
	handlers FlowHandlers
	debug    bool
}

// NewLoginFlow builds the standard two-phase flow: the caller selects a role
// before the credential form is submitted.
func NewLoginFlow(session *SessionManager, client IdentityClient, store TokenStore, opts ...FlowOption) *LoginFlow {
	f := &LoginFlow{
		session: session,
		client:  client,
		store:   store,
		mode:    ModeLogin,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f
}

// NewAdminLoginFlow builds the admin-only entry point: role selection is
// skipped, the role is fixed to admin and the mode is locked to login.
func NewAdminLoginFlow(session *SessionManager, client IdentityClient, store TokenStore, opts ...FlowOption) *LoginFlow {
	f := NewLoginFlow(session, client, store, opts...)
	f.role = RoleAdmin
	f.roleSelected = true
	f.roleLocked = true
	return f
}

// SelectRole picks the role the attempt is gated on. Selecting admin locks
// the mode to login for the remainder of the attempt. The admin-only entry
// point does not allow re-selection.
func (f *LoginFlow) SelectRole(role Role) error {
	if !role.IsValid() {
		return ErrUnknownRole.WithMetadata(map[string]any{"role": string(role)})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.roleLocked {
		return ErrModeLocked
	}

	f.role = role
	f.roleSelected = true
	if role == RoleAdmin {
		f.mode = ModeLogin
	}

	return nil
}

// SwitchMode toggles between login and register. Admin attempts reject the
// switch; the mode stays login.
func (f *LoginFlow) SwitchMode(mode FlowMode) error {
	if mode != ModeLogin && mode != ModeRegister {
		return goerrors.New("unknown flow mode", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"mode": string(mode)})
	}

	f.mu.Lock()
	if mode == ModeRegister && (f.roleLocked || (f.roleSelected && f.role == RoleAdmin)) {
		f.mu.Unlock()
		return ErrModeLocked
	}

	changed := f.mode != mode
	f.mode = mode
	handlers := f.handlers
	f.mu.Unlock()

	if changed {
		handlers.dispatch(FlowEvent{Kind: EventModeSwitched, Mode: mode})
	}

	return nil
}

// Role returns the selected role, when one was picked.
func (f *LoginFlow) Role() (Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.role, f.roleSelected
}

// Mode returns the current flow mode.
func (f *LoginFlow) Mode() FlowMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Busy reports whether a submit is in flight. Submits are not deduplicated;
// callers should disable the triggering control while Busy is true.
func (f *LoginFlow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Submit validates the form and runs the selected login or register call.
// Every failure resolves to a renderable FlowResult; the returned error is
// reserved for misuse (submitting before a role was selected).
func (f *LoginFlow) Submit(ctx context.Context, form Form) (*FlowResult, error) {
	f.mu.Lock()
	if !f.roleSelected {
		f.mu.Unlock()
		return nil, ErrRoleNotSelected
	}
	role := f.role
	mode := f.mode
	handlers := f.handlers
	f.busy = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	if f.debug {
		f.logger.Debug("submit payload: %s", print.MaybePrettyJSON(map[string]any{
			"role": role,
			"mode": mode,
		}))
	}

	// validation failures are field-scoped and block the network call
	if err := form.validate(mode); err != nil {
		return &FlowResult{FieldErrors: formatValidationErrors(err)}, nil
	}

	creds, err := f.authenticate(ctx, mode, form)
	if err != nil {
		message := failureMessage(err)
		f.logger.Info("authentication failed: %v", err)
		handlers.dispatch(FlowEvent{Kind: EventAuthFailed, Message: message})
		return &FlowResult{Message: message}, nil
	}

	if creds.Identity.Role != role {
		// The remote call already succeeded; the client withholds its own
		// transition and discards the token without revoking the remote
		// session.
		message := fmt.Sprintf("Access denied: %s privileges required", role)
		f.logger.Info("role cross-check denied: wanted %s, got %s", role, creds.Identity.Role)
		handlers.dispatch(FlowEvent{Kind: EventRoleDenied, Message: message})
		return &FlowResult{Denied: true, Message: message}, nil
	}

	if err := f.store.Save(creds.Token); err != nil {
		// the session is still valid for this run; it just won't survive a
		// restart
		f.logger.Warn("could not persist token: %v", err)
	}

	f.session.Login(creds.Identity)

	redirect := f.redirectTarget(role)
	identity := creds.Identity
	handlers.dispatch(FlowEvent{
		Kind:       EventAuthSucceeded,
		Identity:   &identity,
		RedirectTo: redirect,
	})

	return &FlowResult{RedirectTo: redirect, Identity: &identity}, nil
}

func (f *LoginFlow) authenticate(ctx context.Context, mode FlowMode, form Form) (*Credentials, error) {
	if mode == ModeRegister {
		return f.client.Register(ctx, form.Name, form.Email, form.Password)
	}
	return f.client.Login(ctx, form.Email, form.Password)
}

func (f *LoginFlow) redirectTarget(role Role) string {
	if role == RoleAdmin {
		return PathAdmin
	}

	if f.intents != nil {
		if path, ok := f.intents.Consume(); ok {
			return path
		}
	}

	return PathDashboard
}

// failureMessage maps an identity client error to the user-facing message.
// No session state changes on any failure path.
func failureMessage(err error) string {
	switch {
	case IsInvalidCredentials(err):
		return "invalid email or password"
	case IsValidationError(err):
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Message != "" {
			return richErr.Message
		}
		return "registration was rejected"
	default:
		return "something went wrong, please try again"
	}
}

// formatValidationErrors flattens ozzo field errors into a field -> message
// map keyed the way the form names its fields.
func formatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for field, ferr := range fieldErrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
