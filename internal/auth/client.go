package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/rulebook-agent/internal/fetch"
	"github.com/jonathan/rulebook-agent/internal/runstate"
)

// expiryLayout is the expiration timestamp format returned by the auth
// endpoint (ISO-8601 UTC).
const expiryLayout = "2006-01-02T15:04:05Z"

// Mode selects how downstream calls are authenticated.
type Mode string

// Supported auth modes.
const (
	// ModeBearer authenticates against the auth endpoint and attaches
	// "Authorization: Bearer <token>".
	ModeBearer Mode = "bearer"
	// ModeAPIKey attaches a static "x-api-key" header and never calls the
	// auth endpoint.
	ModeAPIKey Mode = "api-key"
)

// Credentials are the bearer-mode login parameters.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// Client supplies auth headers for rulebook API calls, caching bearer tokens
// in the run-state store until their expiry.
type Client struct {
	authURL string
	creds   Credentials
	mode    Mode
	apiKey  string
	store   runstate.Store
	opts    *fetch.Options
	now     func() time.Time
}

// NewClient creates an auth client. store holds the cached token; opts may be
// nil for defaults.
func NewClient(mode Mode, authURL string, creds Credentials, apiKey string, store runstate.Store, opts *fetch.Options) *Client {
	return &Client{
		authURL: authURL,
		creds:   creds,
		mode:    mode,
		apiKey:  apiKey,
		store:   store,
		opts:    opts,
		now:     time.Now,
	}
}

// WithClock replaces the client's time source. Used by tests.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Mode returns the configured auth mode.
func (c *Client) Mode() Mode {
	return c.mode
}

// Headers returns the auth headers to attach to a rulebook API call. In
// api-key mode this never touches the network.
func (c *Client) Headers(ctx context.Context) (map[string]string, error) {
	if c.mode == ModeAPIKey {
		return map[string]string{"x-api-key": c.apiKey}, nil
	}

	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

// Token returns the cached bearer token if present and unexpired, otherwise
// authenticates and caches the fresh one.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, ok, err := c.store.Get(runstate.KeyAuthToken)
	if err != nil {
		return "", &AuthError{Message: "failed to read token cache", Cause: err}
	}
	if ok {
		return token, nil
	}
	return c.authenticate(ctx)
}

// authResponse is the auth endpoint's wire format.
type authResponse struct {
	Result struct {
		Token      string `json:"token"`
		Expiration string `json:"expiration"`
	} `json:"result"`
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	var resp authResponse
	if err := fetch.PostJSON(ctx, c.authURL, c.creds, &resp, c.opts); err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
			return "", &AuthError{
				Message:    "authentication rejected",
				StatusCode: fetchErr.StatusCode,
				Cause:      err,
			}
		}
		return "", &AuthError{Message: "authentication request failed", Cause: err}
	}

	if resp.Result.Token == "" {
		return "", &AuthError{Message: "auth response missing token"}
	}

	expiresAt, err := time.Parse(expiryLayout, resp.Result.Expiration)
	if err != nil {
		return "", &AuthError{Message: "auth response has malformed expiration", Cause: err}
	}

	ttl := expiresAt.Sub(c.now())
	if ttl > 0 {
		if err := c.store.Set(runstate.KeyAuthToken, resp.Result.Token, ttl); err != nil {
			return "", &AuthError{Message: "failed to cache token", Cause: err}
		}
	}

	return resp.Result.Token, nil
}
