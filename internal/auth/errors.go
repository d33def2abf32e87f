// Package auth acquires and caches the bearer credential for the rulebook
// API, or applies a static API key depending on the configured mode.
package auth

import "fmt"

// AuthError represents a credential rejection or a malformed auth response.
type AuthError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the auth endpoint's status code, or zero if none was received.
func (e *AuthError) HTTPStatus() int {
	return e.StatusCode
}
