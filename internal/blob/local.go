package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects below a directory that the HTTP server exposes
// at /uploads.
type LocalStore struct {
	BasePath   string
	PublicBase string
}

func NewLocalStore(basePath, publicBase string) *LocalStore {
	return &LocalStore{
		BasePath:   basePath,
		PublicBase: strings.TrimRight(publicBase, "/") + "/uploads",
	}
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.BasePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}
	return publicURL(s.PublicBase, key), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.BasePath, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
