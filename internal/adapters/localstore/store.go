// Package localstore keeps uploaded files on the local filesystem.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/damedesign/portfolio/internal/ports"
)

// DefaultBaseURL is where the HTTP server mounts the upload directory.
const DefaultBaseURL = "/uploads/"

// Store implements ports.ObjectStore on disk.
type Store struct {
	dir     string
	baseURL string
	maxSize int64
}

// New creates a Store rooted at dir, creating it when missing.
// maxSize of 0 disables the size check.
func New(dir, baseURL string, maxSize int64) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Store{dir: dir, baseURL: baseURL, maxSize: maxSize}, nil
}

// Dir returns the root directory, for serving files.
func (s *Store) Dir() string { return s.dir }

// Put writes the object atomically and returns its public URL.
func (s *Store) Put(ctx context.Context, in ports.PutObjectInput) (string, error) {
	if s.maxSize > 0 && in.Size > s.maxSize {
		return "", ports.ErrObjectTooLarge
	}
	key, target, err := s.resolve(in.Key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var reader io.Reader = in.Body
	if s.maxSize > 0 {
		reader = io.LimitReader(in.Body, s.maxSize+1)
	}
	written, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		return "", ports.ErrObjectTooLarge
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return s.baseURL + key, nil
}

// Delete removes the object. Missing objects are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	_, target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// resolve cleans key and maps it inside the root directory.
func (s *Store) resolve(key string) (string, string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.Contains(key, "..") {
		return "", "", fmt.Errorf("invalid object key %q", key)
	}
	return cleaned, filepath.Join(s.dir, filepath.FromSlash(cleaned)), nil
}
