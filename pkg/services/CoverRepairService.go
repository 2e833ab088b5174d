package services

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/danielcfuentes/album-studio/pkg/imageurl"
	"github.com/danielcfuentes/album-studio/pkg/models"
)

type CoverRepairer interface {
	Repair() RepairResult
}

type RepairResult struct {
	Checked  int
	Repaired int64
	Failed   int64
}

type CoverRepairServiceConfig struct {
	AlbumService    AlbumServicer
	SettingsService SettingsServicer
	MaxWorkers      int
	ShutdownCtx     context.Context
}

/*
CoverRepairService rewrites stored image URLs that predate the current link
normalization rules, so old share links start rendering again.
*/
type CoverRepairService struct {
	albumService    AlbumServicer
	settingsService SettingsServicer
	maxWorkers      int
	shutdownCtx     context.Context
}

func NewCoverRepairService(config CoverRepairServiceConfig) CoverRepairService {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return CoverRepairService{
		albumService:    config.AlbumService,
		settingsService: config.SettingsService,
		maxWorkers:      config.MaxWorkers,
		shutdownCtx:     config.ShutdownCtx,
	}
}

func (c CoverRepairService) Repair() RepairResult {
	var (
		err      error
		albums   []models.Album
		result   RepairResult
		repaired atomic.Int64
		failed   atomic.Int64
	)

	slog.Info("starting image link repair...")

	if albums, err = c.albumService.List(c.shutdownCtx); err != nil {
		slog.Error("error retrieving albums for link repair", "error", err)
		return result
	}

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	for _, album := range albums {
		result.Checked++

		if imageurl.IsNormalized(album.CoverImageURL) {
			continue
		}

		pool.Submit(func() {
			slog.Info("repairing album cover link", "albumID", album.ID, "coverImageUrl", album.CoverImageURL)

			if err := c.albumService.ReplaceCoverImage(c.shutdownCtx, album.ID, album.CoverImageURL); err != nil {
				slog.Error("error repairing album cover link", "albumID", album.ID, "error", err)
				failed.Add(1)
				return
			}

			repaired.Add(1)
		})
	}

	_ = pool.Stop().Wait()

	result.Checked++

	if fixed, err := c.repairSettings(); err != nil {
		slog.Error("error repairing site settings image links", "error", err)
		failed.Add(1)
	} else if fixed {
		repaired.Add(1)
	}

	result.Repaired = repaired.Load()
	result.Failed = failed.Load()

	slog.Info("image link repair finished", "checked", result.Checked, "repaired", result.Repaired, "failed", result.Failed)
	return result
}

func (c CoverRepairService) repairSettings() (bool, error) {
	settings, err := c.settingsService.Get(c.shutdownCtx)

	if err != nil {
		return false, err
	}

	if imageurl.IsNormalized(settings.LogoURL) && imageurl.IsNormalized(settings.AboutImageURL) {
		return false, nil
	}

	slog.Info("repairing site settings image links", "logoUrl", settings.LogoURL, "aboutImageUrl", settings.AboutImageURL)

	if _, err = c.settingsService.Update(c.shutdownCtx, settings); err != nil {
		return false, err
	}

	return true, nil
}
