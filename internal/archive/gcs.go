package archive

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/pratik-mahalle/cisaudit/internal/config"
)

// GCSStore writes objects to a Cloud Storage bucket
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore uses the service account JSON when given, otherwise
// application default credentials.
func NewGCSStore(ctx context.Context, cfg config.ArchiveConfig) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.GCPCredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GCPCredentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: cfg.Bucket}, nil
}

// Put streams data through an object writer
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s/%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Name returns "gcs"
func (s *GCSStore) Name() string { return BackendGCS }

// Close releases the client
func (s *GCSStore) Close() error {
	return s.client.Close()
}
