package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Storage keeps uploaded files under one root directory.
type Storage struct {
	validator *PathValidator
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

// Save writes r to relPath through a temporary file so readers never see a
// partial upload.
func (s *Storage) Save(relPath string, r io.Reader) (int64, error) {
	resolved, err := s.validator.ResolvePath(relPath)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("write %q: %w", relPath, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %q: %w", relPath, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, fmt.Errorf("chmod %q: %w", relPath, err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return 0, fmt.Errorf("move %q into place: %w", relPath, err)
	}

	return written, nil
}

// Remove deletes relPath; a missing file is not an error.
func (s *Storage) Remove(relPath string) error {
	resolved, err := s.validator.ResolvePath(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", relPath, err)
	}
	return nil
}

func (s *Storage) Exists(relPath string) bool {
	resolved, err := s.validator.ResolvePath(relPath)
	if err != nil {
		return false
	}
	info, err := os.Stat(resolved)
	return err == nil && info.Mode().IsRegular()
}

// Open returns a regular file under the root for serving.
func (s *Storage) Open(relPath string) (*os.File, fs.FileInfo, error) {
	resolved, err := s.validator.ResolvePath(relPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, info, nil
}
