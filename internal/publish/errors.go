// Package publish maps structured regulations into the rulebook inventory's
// wire schema and submits them, advancing the run watermark on confirmed
// success.
package publish

import "fmt"

// PublishError represents a failed submission: either a transport/status
// failure, or a 2xx response whose body reports logical failure.
type PublishError struct {
	Message    string
	StatusCode int
	Logical    bool
	Cause      error
}

func (e *PublishError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("publish error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("publish error: %s", e.Message)
}

func (e *PublishError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the inventory endpoint's status code, or zero if none was received.
func (e *PublishError) HTTPStatus() int {
	return e.StatusCode
}
