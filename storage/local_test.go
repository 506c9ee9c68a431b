package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) (*LocalStorage, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)
	return store, dir
}

func TestLocalStorageSaveGet(t *testing.T) {
	store, dir := newLocalStore(t)
	ctx := context.Background()

	err := store.Save(ctx, "findings_images/a.jpg", bytes.NewReader([]byte("photo")), "image/jpeg")
	require.NoError(t, err)

	// Nested directories are created on demand.
	_, err = os.Stat(filepath.Join(dir, "findings_images", "a.jpg"))
	require.NoError(t, err)

	reader, err := store.Get(ctx, "findings_images/a.jpg")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("photo"), data)
}

func TestLocalStorageExists(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "missing.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(ctx, "present.jpg", bytes.NewReader([]byte("x")), "image/jpeg"))

	exists, err = store.Exists(ctx, "present.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorageDeleteIdempotent(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "b.png", bytes.NewReader([]byte("x")), "image/png"))
	require.NoError(t, store.Delete(ctx, "b.png"))

	exists, err := store.Exists(ctx, "b.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an already-deleted blob is not an error.
	assert.NoError(t, store.Delete(ctx, "b.png"))
	assert.NoError(t, store.Delete(ctx, "never-existed.jpg"))
}

func TestLocalStorageGetMissing(t *testing.T) {
	store, _ := newLocalStore(t)

	_, err := store.Get(context.Background(), "nope.jpg")
	assert.Error(t, err)
}

func TestLocalStorageGetURL(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()

	url, err := store.GetURL(ctx, "findings_images/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/files/findings_images/a.jpg", url)

	withBase, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "https://cdn.example.com"})
	require.NoError(t, err)

	url, err = withBase.GetURL(ctx, "findings_images/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/findings_images/a.jpg", url)
}

func TestNewStorageFactory(t *testing.T) {
	store, err := NewStorage(Config{Type: "local", BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)

	// Empty type defaults to local.
	store, err = NewStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)

	_, err = NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
