package services

import (
	"context"
	"fmt"
	"time"

	"github.com/danielcfuentes/album-studio/pkg/imageurl"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type SettingsServicer interface {
	Get(ctx context.Context) (models.SiteSettings, error)
	Update(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error)
}

type SettingsServiceConfig struct {
	DB *sqlz.DB
}

type SettingsService struct {
	db *sqlz.DB
}

func NewSettingsService(config SettingsServiceConfig) SettingsService {
	return SettingsService{
		db: config.DB,
	}
}

/*
Get returns the site settings. The first call on an empty database stores
and returns the defaults.
*/
func (s SettingsService) Get(ctx context.Context) (models.SiteSettings, error) {
	var (
		err error
	)

	result := models.SiteSettings{}

	sql := `
SELECT
   s.photographer_name
   , s.tagline
   , s.logo_url
   , s.email
   , s.phone
   , s.location
   , s.about_me
   , s.about_image_url
   , s.social_links
   , s.accent_color
   , s.dark_mode_default
FROM site_settings AS s
WHERE s.id=?
`

	queryCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(queryCtx, &result, sql, models.SiteSettingsID); err != nil {
		if sqlz.IsNotFound(err) {
			return s.Update(ctx, models.DefaultSiteSettings())
		}

		return result, fmt.Errorf("error querying for site settings: %w", err)
	}

	return result, nil
}

/*
Update writes the whole settings record, creating it when missing. Image
URLs are normalized before they are stored.
*/
func (s SettingsService) Update(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	var (
		err error
	)

	if err = settings.Validate(); err != nil {
		return models.SiteSettings{}, err
	}

	settings = normalizeSettings(settings)

	sql := `
INSERT INTO site_settings (
   id
   , photographer_name
   , tagline
   , logo_url
   , email
   , phone
   , location
   , about_me
   , about_image_url
   , social_links
   , accent_color
   , dark_mode_default
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
   photographer_name=excluded.photographer_name
   , tagline=excluded.tagline
   , logo_url=excluded.logo_url
   , email=excluded.email
   , phone=excluded.phone
   , location=excluded.location
   , about_me=excluded.about_me
   , about_image_url=excluded.about_image_url
   , social_links=excluded.social_links
   , accent_color=excluded.accent_color
   , dark_mode_default=excluded.dark_mode_default
`

	params := []any{
		models.SiteSettingsID,
		settings.PhotographerName,
		settings.Tagline,
		settings.LogoURL,
		settings.Email,
		settings.Phone,
		settings.Location,
		settings.AboutMe,
		settings.AboutImageURL,
		settings.SocialLinks,
		settings.AccentColor,
		settings.DarkModeDefault,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return models.SiteSettings{}, fmt.Errorf("error saving site settings: %w", err)
	}

	return settings, nil
}

func normalizeSettings(settings models.SiteSettings) models.SiteSettings {
	settings.LogoURL = imageurl.Normalize(settings.LogoURL)
	settings.AboutImageURL = imageurl.Normalize(settings.AboutImageURL)
	return settings
}
