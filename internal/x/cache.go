package x

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type Cache interface {
	Get(key string) (string, bool)
	Set(key string, content string) error
}

// FileCache stores each key as a file in a directory
type FileCache struct {
	dir string
}

// NewFileCache creates a new cache instance
func NewFileCache(cacheDir string) (*FileCache, error) {
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileCache{dir: cacheDir}, nil
}

// Key derives a file name safe key from arbitrary parts.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Get retrieves content from cache
func (c *FileCache) Get(key string) (string, bool) {
	content, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", false
	}
	return string(content), true
}

// Set stores content in cache. The file is replaced atomically so a reader
// never sees a partial write.
func (c *FileCache) Set(key string, content string) error {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return os.Rename(tmp.Name(), c.path(key))
}

// Delete removes a key. Missing keys are not an error.
func (c *FileCache) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, filepath.Base(key))
}
