package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/danielcfuentes/album-studio/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStorage(t *testing.T, maxBytes int64) (storage.LocalStorage, string) {
	dir := t.TempDir()

	return storage.NewLocalStorage(storage.LocalStorageConfig{
		MaxObjectBytes: maxBytes,
		PublicBaseURL:  "http://localhost:8080/uploads/",
		RootDir:        dir,
	}), dir
}

func TestLocalStoragePutWritesFile(t *testing.T) {
	s, dir := newLocalStorage(t, 0)

	err := s.Put(context.Background(), "albums/123-abc.jpg", bytes.NewReader([]byte("jpeg bytes")), "image/jpeg")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "albums", "123-abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(b))
}

func TestLocalStorageNeverOverwrites(t *testing.T) {
	s, dir := newLocalStorage(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "albums/a.png", strings.NewReader("first"), "image/png"))

	err := s.Put(ctx, "albums/a.png", strings.NewReader("second"), "image/png")
	assert.ErrorIs(t, err, storage.ErrObjectExists)

	b, err := os.ReadFile(filepath.Join(dir, "albums", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))
}

func TestLocalStorageEnforcesLimit(t *testing.T) {
	s, dir := newLocalStorage(t, 4)

	err := s.Put(context.Background(), "albums/big.jpg", strings.NewReader("12345"), "image/jpeg")
	assert.ErrorIs(t, err, storage.ErrStorageLimit)

	_, statErr := os.Stat(filepath.Join(dir, "albums", "big.jpg"))
	assert.True(t, os.IsNotExist(statErr))

	assert.NoError(t, s.Put(context.Background(), "albums/ok.jpg", strings.NewReader("1234"), "image/jpeg"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, _ := newLocalStorage(t, 0)

	err := s.Put(context.Background(), "../outside.jpg", strings.NewReader("x"), "image/jpeg")
	assert.Error(t, err)
}

func TestLocalStoragePublicURL(t *testing.T) {
	s, _ := newLocalStorage(t, 0)
	assert.Equal(t, "http://localhost:8080/uploads/albums/a.jpg", s.PublicURL("albums/a.jpg"))
}

func TestIsSizeLimitError(t *testing.T) {
	assert.True(t, storage.IsSizeLimitError(&smithy.GenericAPIError{Code: "EntityTooLarge", Message: "Your proposed upload exceeds the maximum allowed size"}))
	assert.False(t, storage.IsSizeLimitError(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, storage.IsSizeLimitError(assert.AnError))
}
