package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/danielcfuentes/album-studio/pkg/services"
	"github.com/danielcfuentes/album-studio/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	err     error
	objects map[string][]byte
	types   map[string]string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (f *fakeObjectStore) Put(ctx context.Context, path string, body io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}

	if _, ok := f.objects[path]; ok {
		return storage.ErrObjectExists
	}

	b, err := io.ReadAll(body)

	if err != nil {
		return err
	}

	f.objects[path] = b
	f.types[path] = contentType
	return nil
}

func (f *fakeObjectStore) PublicURL(path string) string {
	return "https://cdn.example.com/" + path
}

func fixedNow() time.Time {
	return time.UnixMilli(1700000000000)
}

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x * y) % 251), A: 255})
		}
	}

	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func newUploadService(store storage.ObjectStorer, options services.UploadOptions) services.UploadService {
	return services.NewUploadService(services.UploadServiceConfig{
		Options: options,
		Storage: store,
		Now:     fixedNow,
	})
}

func TestPrepareSizeGate(t *testing.T) {
	svc := newUploadService(newFakeObjectStore(), services.UploadOptions{MaxBytes: 10})

	_, err := svc.Prepare(services.UploadFile{Name: "a.jpg", ContentType: "image/jpeg", Data: make([]byte, 11)})

	var tooLarge *services.FileTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(11), tooLarge.Size)
	assert.Equal(t, int64(10), tooLarge.Limit)
	assert.Contains(t, err.Error(), "11 B")
	assert.Contains(t, err.Error(), "10 B")

	blob, err := svc.Prepare(services.UploadFile{Name: "a.jpg", ContentType: "image/jpeg", Data: make([]byte, 10)})
	require.NoError(t, err)
	assert.Len(t, blob.Data, 10)
}

func TestFileTooLargeMessageUsesHumanSizes(t *testing.T) {
	err := &services.FileTooLargeError{Size: 25 * 1024 * 1024, Limit: services.DefaultMaxUploadBytes}
	assert.Contains(t, err.Error(), "25 MiB")
	assert.Contains(t, err.Error(), "20 MiB")
}

func TestPrepareSmallImageIsByteIdentical(t *testing.T) {
	data := noisyPNG(t, 20, 10)
	svc := newUploadService(newFakeObjectStore(), services.DefaultUploadOptions())

	blob, err := svc.Prepare(services.UploadFile{Name: "Cover.PNG", ContentType: "image/png", Data: data})

	require.NoError(t, err)
	assert.Equal(t, data, blob.Data)
	assert.Equal(t, "image/png", blob.ContentType)
	assert.Equal(t, "png", blob.Extension)
	assert.False(t, blob.Recompressed)
}

func TestPrepareLargeImageIsDownscaled(t *testing.T) {
	data := noisyPNG(t, 200, 100)
	svc := newUploadService(newFakeObjectStore(), services.UploadOptions{
		ResizeThresholdBytes: 10,
		MaxDimension:         64,
	})

	blob, err := svc.Prepare(services.UploadFile{Name: "big.png", ContentType: "image/png", Data: data})

	require.NoError(t, err)
	assert.True(t, blob.Recompressed)
	assert.Equal(t, "image/jpeg", blob.ContentType)
	assert.Equal(t, "jpg", blob.Extension)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(blob.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestPrepareLargeImageWithinDimensionKeepsSize(t *testing.T) {
	data := noisyPNG(t, 40, 30)
	svc := newUploadService(newFakeObjectStore(), services.UploadOptions{
		ResizeThresholdBytes: 10,
		MaxDimension:         1920,
	})

	blob, err := svc.Prepare(services.UploadFile{Name: "mid.png", ContentType: "image/png", Data: data})

	require.NoError(t, err)
	assert.True(t, blob.Recompressed)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(blob.Data))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestPrepareUndecodableImageFallsBackToOriginal(t *testing.T) {
	data := bytes.Repeat([]byte("not really a jpeg "), 20)
	svc := newUploadService(newFakeObjectStore(), services.UploadOptions{ResizeThresholdBytes: 100})

	blob, err := svc.Prepare(services.UploadFile{Name: "broken.JPEG", ContentType: "image/jpeg", Data: data})

	require.NoError(t, err)
	assert.Equal(t, data, blob.Data)
	assert.Equal(t, "image/jpeg", blob.ContentType)
	assert.Equal(t, "jpg", blob.Extension)
	assert.False(t, blob.Recompressed)
}

func TestPrepareNonImagePassesThrough(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3}, 100)
	svc := newUploadService(newFakeObjectStore(), services.UploadOptions{ResizeThresholdBytes: 10})

	blob, err := svc.Prepare(services.UploadFile{Name: "notes.pdf", ContentType: "application/pdf", Data: data})

	require.NoError(t, err)
	assert.Equal(t, data, blob.Data)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, "jpg", blob.Extension)
	assert.False(t, blob.Recompressed)
}

func TestPrepareExtensions(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "a.png", want: "png"},
		{name: "a.WEBP", want: "webp"},
		{name: "a.Gif", want: "gif"},
		{name: "a.jpeg", want: "jpg"},
		{name: "a.heic", want: "jpg"},
		{name: "no-extension", want: "jpg"},
	}

	svc := newUploadService(newFakeObjectStore(), services.DefaultUploadOptions())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := svc.Prepare(services.UploadFile{Name: tt.name, ContentType: "image/png", Data: []byte("x")})
			require.NoError(t, err)
			assert.Equal(t, tt.want, blob.Extension)
		})
	}
}

func TestStoreWritesUniquePaths(t *testing.T) {
	store := newFakeObjectStore()
	svc := newUploadService(store, services.DefaultUploadOptions())
	blob := services.PreparedBlob{Data: []byte("img"), ContentType: "image/png", Extension: "png"}
	pathPattern := regexp.MustCompile(`^https://cdn\.example\.com/albums/1700000000000-[0-9a-z]{7}\.png$`)

	seen := map[string]bool{}

	for i := 0; i < 20; i++ {
		url, err := svc.Store(context.Background(), blob, "albums")

		require.NoError(t, err)
		assert.Regexp(t, pathPattern, url)
		assert.False(t, seen[url], "duplicate url %s", url)
		seen[url] = true
	}

	assert.Len(t, store.objects, 20)

	for path, contentType := range store.types {
		assert.Equal(t, "image/png", contentType, path)
	}
}

func TestStoreMapsSizeRejections(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "structured limit", err: fmt.Errorf("put failed: %w", storage.ErrStorageLimit), wantErr: services.ErrServerFileTooLarge},
		{name: "file size message", err: errors.New("The File Size exceeds what we accept"), wantErr: services.ErrServerFileTooLarge},
		{name: "limit message", err: errors.New("payload over LIMIT"), wantErr: services.ErrServerFileTooLarge},
		{name: "object exists", err: storage.ErrObjectExists, wantErr: storage.ErrObjectExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeObjectStore()
			store.err = tt.err
			svc := newUploadService(store, services.DefaultUploadOptions())

			url, err := svc.Store(context.Background(), services.PreparedBlob{Data: []byte("x"), Extension: "jpg"}, "albums")

			assert.Empty(t, url)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStoreOtherErrorsPropagateUnchanged(t *testing.T) {
	boom := errors.New("connection reset by peer")
	store := newFakeObjectStore()
	store.err = boom
	svc := newUploadService(store, services.DefaultUploadOptions())

	_, err := svc.Store(context.Background(), services.PreparedBlob{Data: []byte("x"), Extension: "jpg"}, "albums")

	assert.Same(t, boom, err)
}

func TestUploadPreparesThenStores(t *testing.T) {
	store := newFakeObjectStore()
	svc := newUploadService(store, services.DefaultUploadOptions())

	url, err := svc.Upload(context.Background(), services.UploadFile{Name: "logo.webp", ContentType: "image/webp", Data: []byte("small")}, "settings")

	require.NoError(t, err)
	assert.Regexp(t, `^https://cdn\.example\.com/settings/1700000000000-[0-9a-z]{7}\.webp$`, url)
}

func TestIsAcceptedImageType(t *testing.T) {
	assert.True(t, services.IsAcceptedImageType("image/jpeg"))
	assert.True(t, services.IsAcceptedImageType("image/gif"))
	assert.False(t, services.IsAcceptedImageType("image/svg+xml"))
	assert.False(t, services.IsAcceptedImageType("application/pdf"))
}
