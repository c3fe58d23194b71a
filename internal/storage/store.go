// Package storage abstracts where uploaded complaint documents live.
// Two implementations: local disk for development, Cloudflare R2 for
// production. Handlers depend only on the Store interface.
package storage

import (
	"context"
	"io"
)

// FileInfo describes a stored file.
type FileInfo struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// Store saves, deletes, and resolves URLs for uploaded files.
type Store interface {
	Save(ctx context.Context, path string, file io.Reader, contentType string) (*FileInfo, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}
