package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*gcs.Client, error) {
	if credsPath == "" {
		return gcs.NewClient(ctx)
	}
	return gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCSStore uploads images to a bucket and returns their public URLs.
// Selected with STORAGE_DRIVER=gcs; otherwise LocalStore is used.
type GCSStore struct {
	Client *gcs.Client
	Bucket string
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket}
}

func (s *GCSStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	object := "images/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	wc := s.Client.Bucket(s.Bucket).Object(object).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.Bucket, object), nil
}

func (s *GCSStore) Remove(ctx context.Context, p string) error {
	u, err := url.Parse(p)
	if err != nil {
		return err
	}
	object := strings.TrimPrefix(u.Path, path.Join("/", s.Bucket)+"/")
	return s.Client.Bucket(s.Bucket).Object(object).Delete(ctx)
}

var _ ImageStore = (*GCSStore)(nil)
