package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/danielcfuentes/album-studio/pkg/imaging"
	"github.com/danielcfuentes/album-studio/pkg/storage"
	"github.com/dustin/go-humanize"
)

const (
	DefaultMaxUploadBytes       int64   = 20 * 1024 * 1024
	DefaultResizeThresholdBytes int64   = 2 * 1024 * 1024
	DefaultMaxDimension         int     = 1920
	DefaultJPEGQuality          float64 = 0.88
)

var (
	ErrServerFileTooLarge = fmt.Errorf("file is too large for the server. Try a smaller image or paste an image link instead")

	AcceptedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
)

/*
FileTooLargeError is returned before any processing when an upload exceeds
the configured maximum.
*/
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"image is too large (%s). Max %s. Use a smaller image or paste a link instead",
		humanize.IBytes(uint64(e.Size)),
		humanize.IBytes(uint64(e.Limit)),
	)
}

type UploadOptions struct {
	MaxBytes             int64
	ResizeThresholdBytes int64
	MaxDimension         int
	Quality              float64
}

func DefaultUploadOptions() UploadOptions {
	return UploadOptions{
		MaxBytes:             DefaultMaxUploadBytes,
		ResizeThresholdBytes: DefaultResizeThresholdBytes,
		MaxDimension:         DefaultMaxDimension,
		Quality:              DefaultJPEGQuality,
	}
}

type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

/*
PreparedBlob is the payload that actually gets uploaded: either the original
bytes or a downscaled JPEG.
*/
type PreparedBlob struct {
	Data         []byte
	ContentType  string
	Extension    string
	Recompressed bool
}

type UploadServicer interface {
	Prepare(file UploadFile) (PreparedBlob, error)
	Store(ctx context.Context, blob PreparedBlob, folder string) (string, error)
	Upload(ctx context.Context, file UploadFile, folder string) (string, error)
}

type UploadServiceConfig struct {
	Options UploadOptions
	Storage storage.ObjectStorer
	Now     func() time.Time
}

type UploadService struct {
	options UploadOptions
	storage storage.ObjectStorer
	now     func() time.Time
}

func NewUploadService(config UploadServiceConfig) UploadService {
	defaults := DefaultUploadOptions()

	if config.Options.MaxBytes <= 0 {
		config.Options.MaxBytes = defaults.MaxBytes
	}

	if config.Options.ResizeThresholdBytes <= 0 {
		config.Options.ResizeThresholdBytes = defaults.ResizeThresholdBytes
	}

	if config.Options.MaxDimension <= 0 {
		config.Options.MaxDimension = defaults.MaxDimension
	}

	if config.Options.Quality <= 0 || config.Options.Quality > 1 {
		config.Options.Quality = defaults.Quality
	}

	if config.Now == nil {
		config.Now = time.Now
	}

	return UploadService{
		options: config.Options,
		storage: config.Storage,
		now:     config.Now,
	}
}

func IsAcceptedImageType(contentType string) bool {
	for _, accepted := range AcceptedImageTypes {
		if contentType == accepted {
			return true
		}
	}

	return false
}

/*
Prepare validates the size of file and, for images over the resize
threshold, downscales and re-encodes it as JPEG. If the image cannot be
decoded or encoded the original bytes are used instead.
*/
func (s UploadService) Prepare(file UploadFile) (PreparedBlob, error) {
	size := int64(len(file.Data))

	if size > s.options.MaxBytes {
		return PreparedBlob{}, &FileTooLargeError{Size: size, Limit: s.options.MaxBytes}
	}

	original := PreparedBlob{
		Data:        file.Data,
		ContentType: file.ContentType,
		Extension:   normalizeExtension(file.Name),
	}

	if !strings.HasPrefix(file.ContentType, "image/") || size <= s.options.ResizeThresholdBytes {
		return original, nil
	}

	compressed, err := s.compress(file.Data)

	if err != nil {
		slog.Debug("could not compress image, uploading original", "name", file.Name, "size", size, "error", err)
		return original, nil
	}

	return PreparedBlob{
		Data:         compressed,
		ContentType:  "image/jpeg",
		Extension:    "jpg",
		Recompressed: true,
	}, nil
}

func (s UploadService) compress(data []byte) ([]byte, error) {
	img, _, err := imaging.Decode(data)

	if err != nil {
		return nil, err
	}

	scaled := imaging.Downscale(img, imaging.Orientation(data), s.options.MaxDimension)
	return imaging.EncodeJPEG(scaled, int(math.Round(s.options.Quality*100)))
}

/*
Store uploads blob under folder with a freshly generated file name and
returns its public URL. Existing objects are never replaced.
*/
func (s UploadService) Store(ctx context.Context, blob PreparedBlob, folder string) (string, error) {
	objectPath := path.Join(folder, s.fileName(blob.Extension))

	if err := s.storage.Put(ctx, objectPath, bytes.NewReader(blob.Data), blob.ContentType); err != nil {
		if isSizeRejection(err) {
			return "", ErrServerFileTooLarge
		}

		return "", err
	}

	return s.storage.PublicURL(objectPath), nil
}

func (s UploadService) Upload(ctx context.Context, file UploadFile, folder string) (string, error) {
	blob, err := s.Prepare(file)

	if err != nil {
		return "", err
	}

	return s.Store(ctx, blob, folder)
}

/*
fileName is {milliseconds}-{7 character base36 token}.{ext}
*/
func (s UploadService) fileName(ext string) string {
	if ext == "" {
		ext = "jpg"
	}

	return fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), randomToken(7), ext)
}

func randomToken(length int) string {
	var b strings.Builder

	for b.Len() < length {
		b.WriteString(strconv.FormatUint(rand.Uint64(), 36))
	}

	return b.String()[:length]
}

func normalizeExtension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))

	switch ext {
	case "png", "webp", "gif":
		return ext
	default:
		return "jpg"
	}
}

func isSizeRejection(err error) bool {
	if errors.Is(err, storage.ErrStorageLimit) {
		return true
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "file size") || strings.Contains(message, "limit")
}
