package storage

import (
	"context"
	"io"
)

// ImageStore persists uploaded post images and serves their public paths.
// Save returns the stored path that is later written into the Post document;
// Remove is best-effort and callers log rather than surface its failures.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// allowedImageTypes is the upload MIME allowlist. Anything else is
// discarded without an error; the caller then behaves as if no file was
// attached at all. This silent-rejection policy is deliberate.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// ImageAllowed reports whether the upload content type passes the filter.
func ImageAllowed(contentType string) bool {
	return allowedImageTypes[contentType]
}
