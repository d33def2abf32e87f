package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
)

// LocalStore writes documents into a static-assets directory on disk. The
// returned link is URLPrefix joined with the file name, matching how the
// assets directory is served.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

var _ BlobStore = (*LocalStore)(nil)

// NewLocalStore creates a LocalStore rooted at dir. urlPrefix is the public
// path the directory is served under (e.g. "/static/circulars").
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: urlPrefix}
}

// Save writes the document to disk and returns its serving link.
func (s *LocalStore) Save(_ context.Context, name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", &Error{Name: name, Message: "failed to create assets directory", Cause: err}
	}

	dest := filepath.Join(s.Dir, name)
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", &Error{Name: name, Message: "failed to write document", Cause: err}
	}

	if s.URLPrefix == "" {
		return dest, nil
	}
	return path.Join(s.URLPrefix, name), nil
}

// LocalPath returns the on-disk location a document was saved to. The
// extractor needs this to reopen the file for page rasterization.
func (s *LocalStore) LocalPath(name string) string {
	return filepath.Join(s.Dir, name)
}
