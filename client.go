package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var _ IdentityClient = &HTTPIdentityClient{}

const (
	routeLogin    = "/auth/login"
	routeRegister = "/auth/register"
	routeMe       = "/auth/me"
	routeLogout   = "/auth/logout"
)

// serviceEnvelope is the response shape shared by every identity service call.
type serviceEnvelope struct {
	Success bool      `json:"success"`
	Token   string    `json:"token,omitempty"`
	User    *Identity `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
}

// HTTPIdentityClient implements IdentityClient against the identity
// service's REST contract. It is stateless; the session layer owns tokens.
type HTTPIdentityClient struct {
	baseURL string
	http    *http.Client
	logger  Logger
}

func NewHTTPIdentityClient(baseURL string) *HTTPIdentityClient {
	return &HTTPIdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  defLogger{},
	}
}

func (c *HTTPIdentityClient) WithLogger(logger Logger) *HTTPIdentityClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient swaps the transport, including its timeout policy.
func (c *HTTPIdentityClient) WithHTTPClient(client *http.Client) *HTTPIdentityClient {
	if client != nil {
		c.http = client
	}
	return c
}

func (c *HTTPIdentityClient) Login(ctx context.Context, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}

	env, status, err := c.roundTrip(ctx, http.MethodPost, routeLogin, payload, "")
	if err != nil {
		return nil, err
	}

	if status >= http.StatusInternalServerError {
		return nil, describeErr(ErrServer, env.Message, map[string]any{"status": status})
	}

	if !env.Success || status >= http.StatusBadRequest {
		c.logger.Debug("login rejected with status %d: %s", status, env.Message)
		return nil, describeErr(ErrInvalidCredentials, "", map[string]any{"status": status})
	}

	return c.credentials(env)
}

func (c *HTTPIdentityClient) Register(ctx context.Context, name, email, password string) (*Credentials, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}

	env, status, err := c.roundTrip(ctx, http.MethodPost, routeRegister, payload, "")
	if err != nil {
		return nil, err
	}

	if status >= http.StatusInternalServerError {
		return nil, describeErr(ErrServer, env.Message, map[string]any{"status": status})
	}

	if !env.Success || status >= http.StatusBadRequest {
		// EmailTaken and field problems arrive as a message string, per
		// the service contract; carry it through verbatim.
		return nil, describeErr(ErrValidation, env.Message, map[string]any{"status": status})
	}

	return c.credentials(env)
}

func (c *HTTPIdentityClient) Verify(ctx context.Context, token string) (*Identity, error) {
	env, status, err := c.roundTrip(ctx, http.MethodGet, routeMe, nil, token)
	if err != nil {
		return nil, err
	}

	if status >= http.StatusInternalServerError {
		return nil, describeErr(ErrServer, env.Message, map[string]any{"status": status})
	}

	if !env.Success || status >= http.StatusBadRequest || env.User == nil {
		return nil, describeErr(ErrInvalidToken, "", map[string]any{"status": status})
	}

	identity := *env.User
	return &identity, nil
}

func (c *HTTPIdentityClient) Logout(ctx context.Context, token string) error {
	env, status, err := c.roundTrip(ctx, http.MethodPost, routeLogout, nil, token)
	if err != nil {
		return err
	}

	if status >= http.StatusBadRequest || !env.Success {
		return describeErr(ErrServer, env.Message, map[string]any{"status": status})
	}

	return nil
}

func (c *HTTPIdentityClient) roundTrip(ctx context.Context, method, route string, payload any, token string) (*serviceEnvelope, int, error) {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, describeErr(ErrServer, "could not encode request payload", nil)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, body)
	if err != nil {
		return nil, 0, describeErr(ErrServer, "could not build request", nil)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("identity service transport failure on %s: %v", route, err)
		return nil, 0, describeErr(ErrNetwork, "", map[string]any{"route": route, "cause": err.Error()})
	}
	defer res.Body.Close()

	env := &serviceEnvelope{}
	if err := json.NewDecoder(res.Body).Decode(env); err != nil {
		if res.StatusCode < http.StatusBadRequest {
			return nil, 0, describeErr(ErrServer, "malformed identity service response", map[string]any{"route": route})
		}
		// failed responses without a JSON body still map by status code
		env = &serviceEnvelope{}
	}

	return env, res.StatusCode, nil
}

func (c *HTTPIdentityClient) credentials(env *serviceEnvelope) (*Credentials, error) {
	if env.Token == "" || env.User == nil {
		return nil, describeErr(ErrServer, "identity service response missing token or user", nil)
	}

	return &Credentials{
		Token:    env.Token,
		Identity: *env.User,
	}, nil
}

// BaseURL returns the configured service root.
func (c *HTTPIdentityClient) BaseURL() string {
	return c.baseURL
}

// String helps debugging wiring problems without leaking credentials.
func (c *HTTPIdentityClient) String() string {
	return fmt.Sprintf("identity-client base=%s timeout=%s", c.baseURL, c.http.Timeout)
}
