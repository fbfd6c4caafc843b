package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// localStorage serves datasets from a directory, for development and tests.
type localStorage struct {
	dir string
}

// NewLocalStorage returns a DatasetStorage rooted at dir.
func NewLocalStorage(dir string) DatasetStorage {
	return &localStorage{dir: dir}
}

// path resolves key under dir; rooting the key first keeps ".." from climbing out.
func (l *localStorage) path(key string) string {
	return filepath.Join(l.dir, filepath.Clean("/"+key))
}

func (l *localStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (l *localStorage) PutObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
