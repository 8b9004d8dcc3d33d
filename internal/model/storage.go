package model

import (
	"context"
	"io"
)

// Storage is an object store for raw summarizer outputs.
// Download returns ErrNotFound when the key is absent.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
