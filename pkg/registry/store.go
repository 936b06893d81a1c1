package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrBlobNotFound is returned by a Store when no blob exists under a key.
var ErrBlobNotFound = errors.New("blob not found")

// Store is a flat key-value blob store. Put overwrites unconditionally.
type Store interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Blob is one keyed body of a batch write.
type Blob struct {
	Key  string
	Body []byte
}

// BatchStore is a Store that can stage several blobs before any of them
// replaces the current value.
type BatchStore interface {
	Store
	PutAll(ctx context.Context, blobs []Blob) error
}

// FileStore keeps each blob as a file named by its key inside Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.Dir, key), nil
}

// Put writes through a temporary file and renames it into place, so readers
// never observe a partially written blob.
func (s *FileStore) Put(ctx context.Context, key string, body []byte) error {
	return s.PutAll(ctx, []Blob{{Key: key, Body: body}})
}

// PutAll writes every blob to a temporary file first and renames them into
// place only once all writes succeeded.
func (s *FileStore) PutAll(_ context.Context, blobs []Blob) error {
	paths := make([]string, len(blobs))
	for i, b := range blobs {
		path, err := s.path(b.Key)
		if err != nil {
			return err
		}
		paths[i] = path
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	temps := make([]string, 0, len(blobs))
	defer func() {
		for _, t := range temps {
			os.Remove(t)
		}
	}()
	for _, b := range blobs {
		tmp, err := s.stage(b)
		if err != nil {
			return err
		}
		temps = append(temps, tmp)
	}
	for i, tmp := range temps {
		if err := os.Rename(tmp, paths[i]); err != nil {
			return fmt.Errorf("replace %s: %w", blobs[i].Key, err)
		}
	}
	return nil
}

func (s *FileStore) stage(b Blob) (string, error) {
	tmp, err := os.CreateTemp(s.Dir, "."+b.Key+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(b.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", b.Key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", b.Key, err)
	}
	return tmp.Name(), nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return body, nil
}
