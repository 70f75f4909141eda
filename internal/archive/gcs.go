package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectStore uploads raw statement files to a GCS bucket.
type ObjectStore struct {
	client *storage.Client
	bucket string
}

// NewObjectStore creates an ObjectStore for the given bucket. When
// credentialsFile is empty, Application Default Credentials are used.
func NewObjectStore(ctx context.Context, bucket, credentialsFile string) (*ObjectStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &ObjectStore{client: client, bucket: bucket}, nil
}

// UploadBytes writes data to the bucket under objectName with the given
// content type and returns the resulting gs:// URI.
func (s *ObjectStore) UploadBytes(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %q: %w", objectName, err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload of %q: %w", objectName, err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// Close releases the underlying storage client.
func (s *ObjectStore) Close() error {
	return s.client.Close()
}
