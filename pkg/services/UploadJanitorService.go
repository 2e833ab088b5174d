package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/danielcfuentes/album-studio/pkg/storage"
)

var uploadExtensions = []string{".jpg", ".png", ".webp", ".gif"}

type UploadJanitorServicer interface {
	Sweep() (int, error)
	StartCleanupRoutine(interval time.Duration)
	StopCleanupRoutine()
}

type UploadJanitorServiceConfig struct {
	AlbumService    AlbumServicer
	SettingsService SettingsServicer
	Bucket          string
	Folders         []string
	Retention       time.Duration
	S3Client        s3.S3Client
	Storage         storage.ObjectStorer
}

/*
UploadJanitorService removes uploaded images nobody ended up using, such as
a cover that was uploaded and then replaced before the album was saved.
Objects younger than the retention window are always kept.
*/
type UploadJanitorService struct {
	config        UploadJanitorServiceConfig
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	wg            *sync.WaitGroup
}

func NewUploadJanitorService(config UploadJanitorServiceConfig) *UploadJanitorService {
	if config.Retention <= 0 {
		config.Retention = 7 * 24 * time.Hour
	}

	return &UploadJanitorService{
		config: config,
		wg:     &sync.WaitGroup{},
	}
}

func (s *UploadJanitorService) StartCleanupRoutine(interval time.Duration) {
	s.stopCleanup = make(chan struct{})
	s.cleanupTicker = time.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case <-s.cleanupTicker.C:
				if _, err := s.Sweep(); err != nil {
					slog.Error("upload cleanup failed", "error", err)
				}
			case <-s.stopCleanup:
				s.cleanupTicker.Stop()
				return
			}
		}
	}()

	slog.Info("upload cleanup routine started", "interval", interval, "retention", s.config.Retention)
}

func (s *UploadJanitorService) StopCleanupRoutine() {
	if s.cleanupTicker != nil {
		close(s.stopCleanup)
		s.wg.Wait()
		s.cleanupTicker = nil
		slog.Info("upload cleanup routine stopped")
	}
}

/*
Sweep deletes expired, unreferenced uploads and returns how many were removed.
*/
func (s *UploadJanitorService) Sweep() (int, error) {
	var (
		err          error
		referenced   map[string]bool
		listResponse s3.ListResponse
		removedCount int
	)

	l := slog.With("function", "Sweep")
	cutoffTime := time.Now().Add(-s.config.Retention)

	if referenced, err = s.referencedURLs(); err != nil {
		return 0, err
	}

	for _, folder := range s.config.Folders {
		listResponse, err = s.config.S3Client.List(
			s.config.Bucket,
			folder,
			listoptions.WithGetAll(),
			listoptions.WithFilter(func(obj types.Object) bool {
				ext := strings.ToLower(filepath.Ext(aws.ToString(obj.Key)))
				return slices.IsInSlice(ext, uploadExtensions)
			}),
		)

		if err != nil {
			l.Error("failed to list upload folder", "error", err, "folder", folder)
			continue
		}

		keys := ExpiredUnreferenced(listResponse.Objects, referenced, cutoffTime, s.config.Storage.PublicURL)

		if len(keys) == 0 {
			continue
		}

		l.Info("removing unused uploads", "folder", folder, "count", len(keys))

		if _, err = s.config.S3Client.Delete(s.config.Bucket, keys); err != nil {
			l.Error("failed to remove unused uploads", "error", err, "folder", folder)
			continue
		}

		removedCount += len(keys)
	}

	l.Info("completed cleanup of unused uploads", "removed", removedCount)
	return removedCount, nil
}

func (s *UploadJanitorService) referencedURLs() (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	albums, err := s.config.AlbumService.List(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing albums for upload cleanup: %w", err)
	}

	settings, err := s.config.SettingsService.Get(ctx)

	if err != nil {
		return nil, fmt.Errorf("error reading settings for upload cleanup: %w", err)
	}

	result := map[string]bool{
		settings.LogoURL:       true,
		settings.AboutImageURL: true,
	}

	for _, album := range albums {
		result[album.CoverImageURL] = true
	}

	return result, nil
}

/*
ExpiredUnreferenced returns the keys of objects last modified before cutoff
whose public URL is not in referenced.
*/
func ExpiredUnreferenced(objects []s3.Object, referenced map[string]bool, cutoff time.Time, publicURL func(key string) string) []string {
	expired := []s3.Object{}

	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) && !referenced[publicURL(obj.Key)] {
			expired = append(expired, obj)
		}
	}

	return slices.Map(expired, func(obj s3.Object, index int) string {
		return obj.Key
	})
}
