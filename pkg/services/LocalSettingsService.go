package services

import (
	"context"

	"github.com/danielcfuentes/album-studio/pkg/models"
)

type LocalSettingsServiceConfig struct {
	Store LocalStore
}

type LocalSettingsService struct {
	store LocalStore
}

func NewLocalSettingsService(config LocalSettingsServiceConfig) LocalSettingsService {
	return LocalSettingsService{
		store: config.Store,
	}
}

func (s LocalSettingsService) Get(ctx context.Context) (models.SiteSettings, error) {
	var (
		result models.SiteSettings
		found  bool
	)

	s.store.view(func(doc *localDocument) {
		if doc.Settings != nil {
			result = *doc.Settings
			found = true
		}
	})

	if found {
		return result, nil
	}

	return s.Update(ctx, models.DefaultSiteSettings())
}

func (s LocalSettingsService) Update(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	if err := settings.Validate(); err != nil {
		return models.SiteSettings{}, err
	}

	settings = normalizeSettings(settings)

	err := s.store.change(func(doc *localDocument) error {
		stored := settings
		doc.Settings = &stored
		return nil
	})

	if err != nil {
		return models.SiteSettings{}, err
	}

	return settings, nil
}
