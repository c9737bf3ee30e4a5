// Package storage persists uploaded bootcamp photos, either on the local
// filesystem or in a MinIO bucket.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// PhotoStore saves a photo under the given filename.
type PhotoStore interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) error
}

// LocalStore writes photos into a configured directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader, _ int64, _ string) error {
	f, err := os.OpenFile(filepath.Join(s.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return err
	}
	return f.Sync()
}
