package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a key does not exist in the backing store.
var ErrObjectNotFound = errors.New("object not found in storage")

// DatasetStorage is where catalog datasets (exercise CSV, food JSON) are read from.
type DatasetStorage interface {
	// GetObject opens the object stored under key. The caller closes the reader.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// PutObject stores body under key, replacing any existing object.
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error
}
