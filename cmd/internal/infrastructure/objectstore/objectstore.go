package objectstore

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var ErrObjectNotFound = errors.New("object not found")

// Store is a flat key/value blob store. Keys use "/" as separator.
type Store interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ContentType guesses the media type from the file extension, falling back to sniffing data.
func ContentType(name string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		return byExt
	}
	return mimetype.Detect(data).String()
}
