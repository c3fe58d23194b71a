package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ergy12/inspection-du-travail/internal/storage"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/api/files")
	require.NoError(t, err)

	content := "%PDF-1.4 fake"
	info, err := store.Save(context.Background(), "complaints/c1/doc.pdf",
		strings.NewReader(content), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "/api/files/complaints/c1/doc.pdf", info.URL)
	assert.Equal(t, "doc.pdf", info.FileName)
	assert.Equal(t, int64(len(content)), info.FileSize)
	assert.Equal(t, "application/pdf", info.FileType)

	onDisk, err := os.ReadFile(filepath.Join(dir, "complaints", "c1", "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, content, string(onDisk))

	require.NoError(t, store.Delete(context.Background(), "complaints/c1/doc.pdf"))
	_, err = os.Stat(filepath.Join(dir, "complaints", "c1", "doc.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_DeleteMissingFile(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/api/files")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "does/not/exist.pdf"))
}

func TestLocalStore_URL(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/api/files/")
	require.NoError(t, err)

	assert.Equal(t, "/api/files/a/b.png", store.URL("a/b.png"))
	assert.Equal(t, "/api/files/a/b.png", store.URL("/a/b.png"))
}
