// Package fetch provides shared HTTP helpers for the upstream catalog, the
// document downloads, and the authenticated rulebook API calls.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout. Document downloads are
// the longest HTTP step outside model inference, so this is deliberately
// generous.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; RulebookAgent/1.0)"

// Error represents a failed HTTP exchange. StatusCode is zero when the
// request never produced a response.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the response status code, or zero if none was received.
func (e *Error) HTTPStatus() int {
	return e.StatusCode
}

// TimeoutError indicates a request exceeded its time budget, as distinct from
// a transport failure or an error status.
type TimeoutError struct {
	URL   string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout fetching %s: %v", e.URL, e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// IsTimeout reports whether err is, or wraps, a timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Options configures request behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// ResolveURL joins a relative link with a base URL. Absolute links pass
// through unchanged; unparseable links are returned joined, matching the
// upstream's loose link format.
func ResolveURL(base, link string) string {
	parsed, err := url.Parse(link)
	if err == nil && parsed.IsAbs() {
		return link
	}
	return base + link
}

// Get retrieves the raw body from a URL. Non-2xx responses produce an *Error
// carrying the status code; the body is still returned for diagnostics.
func Get(ctx context.Context, urlStr string, opts *Options) ([]byte, error) {
	return do(ctx, http.MethodGet, urlStr, nil, "", opts)
}

// GetJSON retrieves a URL and unmarshals the response body into out.
func GetJSON(ctx context.Context, urlStr string, out any, opts *Options) error {
	body, err := Get(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{URL: urlStr, Message: "failed to decode JSON response", Cause: err}
	}
	return nil
}

// PostJSON sends payload as a JSON body and unmarshals the response into out
// when out is non-nil.
func PostJSON(ctx context.Context, urlStr string, payload any, out any, opts *Options) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{URL: urlStr, Message: "failed to encode request body", Cause: err}
	}

	respBody, err := do(ctx, http.MethodPost, urlStr, body, "application/json", opts)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{URL: urlStr, Message: "failed to decode JSON response", Cause: err}
	}
	return nil
}

func do(ctx context.Context, method, urlStr string, body []byte, contentType string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return nil, &TimeoutError{URL: urlStr, Cause: err}
		}
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if IsTimeout(err) {
			return nil, &TimeoutError{URL: urlStr, Cause: err}
		}
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return respBody, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return respBody, nil
}
