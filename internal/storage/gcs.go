package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// GCSStore uploads documents to a Google Cloud Storage bucket and makes them
// publicly readable, returning the gs:// URI.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

var _ BlobStore = (*GCSStore)(nil)

// NewGCSStore creates a GCSStore for the named bucket using application
// default credentials.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Save uploads the document and returns its gs:// URI.
func (s *GCSStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(name)

	w := obj.NewWriter(ctx)
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", &Error{Name: name, Message: "failed to upload document", Cause: err}
	}
	if err := w.Close(); err != nil {
		return "", &Error{Name: name, Message: "failed to finalize upload", Cause: err}
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", &Error{Name: name, Message: "failed to make document public", Cause: err}
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, name), nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
