package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
)

// Store writes objects to cloud storage.
type Store interface {
	Put(ctx context.Context, bucket, object string, data []byte, contentType string) error
}

// GCSStore writes to Google Cloud Storage using Application Default Credentials.
type GCSStore struct {
	// Timeout bounds a single upload. Zero means two minutes.
	Timeout time.Duration
}

// NewGCSStore creates a GCSStore with the default upload timeout.
func NewGCSStore() *GCSStore {
	return &GCSStore{}
}

// Put uploads data as bucket/object.
func (s *GCSStore) Put(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object %s/%s: %w", bucket, object, err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload %s/%s: %w", bucket, object, err)
	}
	return nil
}
