// Package catalog fetches the upstream circulars listing and computes the
// batch of entries newer than the run watermark.
package catalog

import (
	"errors"
	"fmt"
)

// ErrBootstrap signals a first run: the watermark was just seeded to the
// newest catalog entry and there is nothing to process. It is a distinguished
// outcome, not a failure.
var ErrBootstrap = errors.New("first run: watermark seeded, nothing to process")

// FetchError represents an unreachable or empty upstream catalog.
type FetchError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog fetch error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog fetch error: %s", e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the listing endpoint's status code, or zero if none was received.
func (e *FetchError) HTTPStatus() int {
	return e.StatusCode
}
