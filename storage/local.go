package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalStore keeps objects as files below a base directory.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a store rooted at basePath, creating it if needed.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create base directory %s", basePath)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}
	return data, nil
}

// Put writes through a temporary file so a concurrent reader never sees a
// partial object.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", key)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to rename %s", key)
	}
	return nil
}

func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat %s", key)
	}
	return true, nil
}

func (s *LocalStore) Close() error {
	return nil
}
