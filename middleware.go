package authflow

import (
	"net/http"
	"net/url"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

const (
	defaultIntentCookie = "authflow_intent"
	noticeQueryParam    = "notice"
)

// GuardMiddleware mounts a Guard as go-router middleware for server-resident
// shells. Redirects to the login entry point stash the requested path in a
// short-lived cookie so the login flow can resume it; denial notices travel
// as a query parameter on the redirect target.
type GuardMiddleware struct {
	guard          Guard
	intentCookie   string
	logger         Logger
	PendingHandler func(c router.Context) error
}

func NewGuardMiddleware(guard Guard) *GuardMiddleware {
	m := &GuardMiddleware{
		guard:        guard,
		intentCookie: defaultIntentCookie,
		logger:       defLogger{},
	}

	m.PendingHandler = m.defaultPendingHandler
	return m
}

func (m *GuardMiddleware) WithLogger(logger Logger) *GuardMiddleware {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithIntentCookie overrides the cookie name carrying the navigation intent.
func (m *GuardMiddleware) WithIntentCookie(name string) *GuardMiddleware {
	if name != "" {
		m.intentCookie = name
	}
	return m
}

// Handler returns the middleware function enforcing the guard.
func (m *GuardMiddleware) Handler() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			decision := m.guard.Check(c.OriginalURL())

			switch decision.Kind {
			case DecisionAllow:
				return next(c)
			case DecisionPending:
				return m.PendingHandler(c)
			case DecisionRedirect:
				return m.redirect(c, decision)
			default:
				err := goerrors.New("unknown guard decision", goerrors.CategoryInternal).
					WithMetadata(map[string]any{"kind": string(decision.Kind)})
				m.logger.Error("guard middleware: %s", print.MaybePrettyJSON(err.Metadata))
				return err
			}
		}
	}
}

func (m *GuardMiddleware) redirect(c router.Context, decision Decision) error {
	if decision.Intent != "" {
		m.setIntentCookie(c, decision.Intent)
	}

	target := decision.Target
	if decision.Notice != "" {
		target = appendNotice(target, decision.Notice)
	}

	m.logger.Info("guard redirect from %s to %s", c.OriginalURL(), target)

	statusCode := http.StatusSeeOther
	if c.Method() == string(router.GET) {
		statusCode = http.StatusFound
	}
	return c.Redirect(target, statusCode)
}

// ConsumeIntent reads and clears the stashed navigation intent, falling back
// to the given default.
func (m *GuardMiddleware) ConsumeIntent(c router.Context, def string) string {
	path := c.Cookies(m.intentCookie)
	if path == "" {
		return def
	}
	m.cookieDel(c, m.intentCookie)
	return path
}

func (m *GuardMiddleware) setIntentCookie(c router.Context, path string) {
	c.Cookie(&router.Cookie{
		Name:     m.intentCookie,
		Value:    path,
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (m *GuardMiddleware) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// The default pending response is a plain placeholder; shells with a view
// engine swap in their own loading screen.
func (m *GuardMiddleware) defaultPendingHandler(c router.Context) error {
	return c.Status(http.StatusOK).SendString("Verifying session...")
}

func appendNotice(target, notice string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}

	q := u.Query()
	q.Set(noticeQueryParam, notice)
	u.RawQuery = q.Encode()
	return u.String()
}
