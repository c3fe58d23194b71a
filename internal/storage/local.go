package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore saves files under a directory on the local filesystem.
// Suitable for development and single-node deployments.
type LocalStore struct {
	dir     string
	baseURL string // URL prefix the API serves files from, e.g. "/api/files"
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the file to disk and returns its metadata.
func (s *LocalStore) Save(ctx context.Context, path string, file io.Reader, contentType string) (*FileInfo, error) {
	fullPath := filepath.Join(s.dir, filepath.Clean(path))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("create subdirectory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &FileInfo{
		URL:      s.URL(path),
		FileName: filepath.Base(path),
		FileSize: size,
		FileType: contentType,
	}, nil
}

// Delete removes a file from disk. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Clean(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// URL returns the API-relative URL for a stored file.
func (s *LocalStore) URL(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}
