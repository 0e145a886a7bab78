package storage

import (
	"context"
	"io"
)

// Storage archives original uploads and feeds the backfill worker. Keys are
// opaque object names within the configured bucket.
type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, data io.Reader) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
