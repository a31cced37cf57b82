package poststore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

var _ StorageInterface = (*FileStorage)(nil)

type FileStorageOptions struct {
	Directory string
}

// FileStorage keeps each slot in its own JSON file inside Directory.
type FileStorage struct {
	directory string
	mu        sync.RWMutex
}

func NewFileStorage(opts FileStorageOptions) (*FileStorage, error) {
	if opts.Directory == "" {
		return nil, errors.New("file storage: Directory is required")
	}

	if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("file storage: create directory: %w", err)
	}

	return &FileStorage{directory: opts.Directory}, nil
}

func (s *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return string(data), true, nil
}

func (s *FileStorage) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return atomicWriteFile(s.path(key), []byte(value), 0o644)
}

// path escapes key into a file name, so distinct keys never share a file.
func (s *FileStorage) path(key string) string {
	return filepath.Join(s.directory, url.PathEscape(key)+".json")
}

// atomicWriteFile writes to a temp file in the target directory and renames it over
// filename, so readers never see a half-written slot.
func atomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	closed := false
	defer func() {
		if !closed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}
	closed = true

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
