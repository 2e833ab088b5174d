package services

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/danielcfuentes/album-studio/pkg/imageurl"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/slug"
	"github.com/google/uuid"
	"github.com/rfberaldo/sqlz"
)

type AlbumServicer interface {
	List(ctx context.Context) ([]models.Album, error)
	Get(ctx context.Context, id string) (models.Album, error)
	GetBySlug(ctx context.Context, slug string) (models.Album, error)
	Create(ctx context.Context, input models.AlbumInput) (models.Album, error)
	Update(ctx context.Context, id string, input models.AlbumInput) (models.Album, error)
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	IncrementClickCount(ctx context.Context, id string) error
	ReplaceCoverImage(ctx context.Context, id, coverImageURL string) error
}

type AlbumServiceConfig struct {
	DB *sqlz.DB
}

type AlbumService struct {
	db *sqlz.DB
}

func NewAlbumService(config AlbumServiceConfig) AlbumService {
	return AlbumService{
		db: config.DB,
	}
}

const albumColumns = `
   a.id
   , a.title
   , a.slug
   , a.cover_image_url
   , a.external_album_url
   , a.description
   , a.event_date
   , a.created_at
   , a.location
   , a.tags
   , a.featured
   , a.visibility
   , a.view_count
   , a.click_count
`

/*
List returns every album, public and unlisted, most recently created first.
Filtering and sorting belong to the album query engine.
*/
func (s AlbumService) List(ctx context.Context) ([]models.Album, error) {
	var (
		err error
	)

	result := []models.Album{}

	sql := `
SELECT` + albumColumns + `
FROM albums AS a
ORDER BY a.rowid DESC
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil {
		return result, fmt.Errorf("error querying for albums: %w", err)
	}

	return result, nil
}

func (s AlbumService) Get(ctx context.Context, id string) (models.Album, error) {
	return s.getBy(ctx, "a.id", id)
}

func (s AlbumService) GetBySlug(ctx context.Context, slug string) (models.Album, error) {
	return s.getBy(ctx, "a.slug", slug)
}

func (s AlbumService) getBy(ctx context.Context, column, value string) (models.Album, error) {
	var (
		err error
	)

	result := models.Album{}

	sql := `
SELECT` + albumColumns + `
FROM albums AS a
WHERE 1=1
   AND ` + column + `=?
ORDER BY a.rowid DESC
LIMIT 1
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &result, sql, value); err != nil {
		if sqlz.IsNotFound(err) {
			return result, models.ErrAlbumNotFound
		}

		return result, fmt.Errorf("error querying for album by %s '%s': %w", column, value, err)
	}

	return result, nil
}

func (s AlbumService) Create(ctx context.Context, input models.AlbumInput) (models.Album, error) {
	var (
		err       error
		tagsValue driver.Value
	)

	if err = input.Validate(); err != nil {
		return models.Album{}, err
	}

	album := newAlbumFromInput(uuid.NewString(), models.Today(), input)

	// sqlz expands slice arguments into IN lists, so tags go in as their JSON text.
	if tagsValue, err = album.Tags.Value(); err != nil {
		return models.Album{}, err
	}

	sql := `
INSERT INTO albums (
   id
   , title
   , slug
   , cover_image_url
   , external_album_url
   , description
   , event_date
   , created_at
   , location
   , tags
   , featured
   , visibility
   , view_count
   , click_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)
`

	params := []any{
		album.ID,
		album.Title,
		album.Slug,
		album.CoverImageURL,
		album.ExternalAlbumURL,
		album.Description,
		album.EventDate,
		album.CreatedAt,
		album.Location,
		tagsValue,
		album.Featured,
		string(album.Visibility),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return models.Album{}, fmt.Errorf("error inserting album '%s': %w", album.Title, err)
	}

	return album, nil
}

/*
Update replaces every editable field of the album. The creation date and the
counters are left alone.
*/
func (s AlbumService) Update(ctx context.Context, id string, input models.AlbumInput) (models.Album, error) {
	var (
		err       error
		existing  models.Album
		tagsValue driver.Value
	)

	if err = input.Validate(); err != nil {
		return models.Album{}, err
	}

	if existing, err = s.Get(ctx, id); err != nil {
		return models.Album{}, err
	}

	album := newAlbumFromInput(existing.ID, existing.CreatedAt, input)
	album.ViewCount = existing.ViewCount
	album.ClickCount = existing.ClickCount

	if tagsValue, err = album.Tags.Value(); err != nil {
		return models.Album{}, err
	}

	sql := `
UPDATE albums SET
   title=?
   , slug=?
   , cover_image_url=?
   , external_album_url=?
   , description=?
   , event_date=?
   , location=?
   , tags=?
   , featured=?
   , visibility=?
WHERE id=?
`

	params := []any{
		album.Title,
		album.Slug,
		album.CoverImageURL,
		album.ExternalAlbumURL,
		album.Description,
		album.EventDate,
		album.Location,
		tagsValue,
		album.Featured,
		string(album.Visibility),
		album.ID,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return models.Album{}, fmt.Errorf("error updating album %s: %w", id, err)
	}

	return album, nil
}

func (s AlbumService) Delete(ctx context.Context, id string) error {
	return s.execOne(ctx, "DELETE FROM albums WHERE id=?", "error deleting album", id)
}

/*
IncrementViewCount adds one to the view counter in a single statement so
concurrent visitors never lose an increment.
*/
func (s AlbumService) IncrementViewCount(ctx context.Context, id string) error {
	return s.execOne(ctx, "UPDATE albums SET view_count = view_count + 1 WHERE id=?", "error incrementing view count", id)
}

func (s AlbumService) IncrementClickCount(ctx context.Context, id string) error {
	return s.execOne(ctx, "UPDATE albums SET click_count = click_count + 1 WHERE id=?", "error incrementing click count", id)
}

func (s AlbumService) ReplaceCoverImage(ctx context.Context, id, coverImageURL string) error {
	return s.execOne(ctx, "UPDATE albums SET cover_image_url=? WHERE id=?", "error replacing cover image", imageurl.Normalize(coverImageURL), id)
}

/*
execOne runs a statement that targets a single album by ID, the last
parameter, and reports ErrAlbumNotFound when no row was touched.
*/
func (s AlbumService) execOne(ctx context.Context, sql, errorMessage string, params ...any) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		return fmt.Errorf("%s %v: %w", errorMessage, params[len(params)-1], err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%s %v: %w", errorMessage, params[len(params)-1], err)
	}

	if affected == 0 {
		return models.ErrAlbumNotFound
	}

	return nil
}

func fallbackSlug(id string) string {
	short := slug.From(id)
	short = strings.ReplaceAll(short, "-", "")

	if len(short) > 8 {
		short = short[:8]
	}

	return "album-" + short
}

/*
newAlbumFromInput applies the write rules shared by every album store: the
cover URL is normalized, a missing slug is derived from the title, and an
unset visibility means public.
*/
func newAlbumFromInput(id string, createdAt models.Date, input models.AlbumInput) models.Album {
	albumSlug := slug.From(input.Slug)

	if albumSlug == "" {
		albumSlug = slug.From(input.Title)
	}

	// Titles with no Latin letters or digits still need a reachable slug.
	if albumSlug == "" {
		albumSlug = fallbackSlug(id)
	}

	visibility := input.Visibility

	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	tags := models.Tags{}

	for _, tag := range input.Tags {
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return models.Album{
		ID:               id,
		Title:            input.Title,
		Slug:             albumSlug,
		CoverImageURL:    imageurl.Normalize(input.CoverImageURL),
		ExternalAlbumURL: input.ExternalAlbumURL,
		Description:      input.Description,
		EventDate:        input.EventDate,
		CreatedAt:        createdAt,
		Location:         input.Location,
		Tags:             tags,
		Featured:         input.Featured,
		Visibility:       visibility,
	}
}
