package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects as files under a directory. PresignGet returns a
// path on this API that streams the object back; it does not expire.
type LocalStore struct {
	dir     string
	urlBase string
}

// NewLocalStore creates dir if needed. urlBase is the route prefix that
// serves objects, e.g. "/v1/exports".
func NewLocalStore(dir, urlBase string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("local blob dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &LocalStore{dir: dir, urlBase: strings.TrimRight(urlBase, "/")}, nil
}

func (s *LocalStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	p, err := s.path(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, fmt.Errorf("failed to put object: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to put object: %w", err)
	}
	return int64(len(data)), nil
}

func (s *LocalStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return data, nil
}

func (s *LocalStore) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	return s.urlBase + "/" + key, nil
}

func (s *LocalStore) DeleteObject(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *LocalStore) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || clean != "/"+key {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}
