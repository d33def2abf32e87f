// Package storage persists downloaded circular documents. Two backends exist:
// the local static-assets directory and a public Google Cloud Storage bucket.
package storage

import (
	"context"
	"fmt"
)

// BlobStore saves a named document and returns the link under which it is
// reachable afterwards.
type BlobStore interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}

// Error represents a failed blob write.
type Error struct {
	Name    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error for %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error for %s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
