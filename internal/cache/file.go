package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// FileCache keeps a single document on disk. It ignores the key: in debug mode
// the first download is stored and every later run reads the same file.
type FileCache struct {
	fs   afero.Fs
	path string
}

func NewFileCache(fsys afero.Fs, path string) *FileCache {
	return &FileCache{fs: fsys, path: path}
}

func (c *FileCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached feed %s: %w", c.path, err)
	}

	log.Debugf("📦 Read cached feed from %s (%d bytes)", c.path, len(data))
	return data, true, nil
}

func (c *FileCache) Set(_ context.Context, _ string, data []byte) error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cached feed %s: %w", c.path, err)
	}

	log.Debugf("📦 Cached feed to %s", c.path)
	return nil
}
