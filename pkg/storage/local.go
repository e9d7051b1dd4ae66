package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes images to a fixed directory on disk. Stored paths are
// URL paths under the prefix the router serves statically.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{Dir: dir, URLPrefix: urlPrefix}, nil
}

func (s *LocalStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(s.URLPrefix, name), nil
}

// Remove deletes the stored file for a previously returned path.
func (s *LocalStore) Remove(ctx context.Context, p string) error {
	rel := strings.TrimPrefix(p, s.URLPrefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return os.ErrNotExist
	}
	return os.Remove(filepath.Join(s.Dir, rel))
}

var _ ImageStore = (*LocalStore)(nil)
