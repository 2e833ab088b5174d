package services

import (
	"context"
	"slices"

	"github.com/danielcfuentes/album-studio/pkg/imageurl"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/google/uuid"
)

type LocalAlbumServiceConfig struct {
	Store LocalStore
}

/*
LocalAlbumService is the AlbumServicer backed by a LocalStore.
*/
type LocalAlbumService struct {
	store LocalStore
}

func NewLocalAlbumService(config LocalAlbumServiceConfig) LocalAlbumService {
	return LocalAlbumService{
		store: config.Store,
	}
}

func (s LocalAlbumService) List(ctx context.Context) ([]models.Album, error) {
	var result []models.Album

	s.store.view(func(doc *localDocument) {
		result = make([]models.Album, 0, len(doc.Albums))

		for _, album := range doc.Albums {
			result = append(result, copyAlbum(album))
		}
	})

	return result, nil
}

func (s LocalAlbumService) Get(ctx context.Context, id string) (models.Album, error) {
	return s.find(func(a models.Album) bool { return a.ID == id })
}

func (s LocalAlbumService) GetBySlug(ctx context.Context, slug string) (models.Album, error) {
	return s.find(func(a models.Album) bool { return a.Slug == slug })
}

func (s LocalAlbumService) find(match func(models.Album) bool) (models.Album, error) {
	var (
		result models.Album
		found  bool
	)

	s.store.view(func(doc *localDocument) {
		if index := slices.IndexFunc(doc.Albums, match); index >= 0 {
			result = copyAlbum(doc.Albums[index])
			found = true
		}
	})

	if !found {
		return models.Album{}, models.ErrAlbumNotFound
	}

	return result, nil
}

/*
Create puts the new album at the front of the collection.
*/
func (s LocalAlbumService) Create(ctx context.Context, input models.AlbumInput) (models.Album, error) {
	if err := input.Validate(); err != nil {
		return models.Album{}, err
	}

	album := newAlbumFromInput(uuid.NewString(), models.Today(), input)

	err := s.store.change(func(doc *localDocument) error {
		doc.Albums = append([]models.Album{album}, doc.Albums...)
		return nil
	})

	if err != nil {
		return models.Album{}, err
	}

	return copyAlbum(album), nil
}

func (s LocalAlbumService) Update(ctx context.Context, id string, input models.AlbumInput) (models.Album, error) {
	var updated models.Album

	if err := input.Validate(); err != nil {
		return models.Album{}, err
	}

	err := s.withAlbum(id, func(album *models.Album) {
		next := newAlbumFromInput(album.ID, album.CreatedAt, input)
		next.ViewCount = album.ViewCount
		next.ClickCount = album.ClickCount

		*album = next
		updated = copyAlbum(next)
	})

	return updated, err
}

func (s LocalAlbumService) Delete(ctx context.Context, id string) error {
	return s.store.change(func(doc *localDocument) error {
		index := slices.IndexFunc(doc.Albums, func(a models.Album) bool { return a.ID == id })

		if index < 0 {
			return models.ErrAlbumNotFound
		}

		doc.Albums = slices.Delete(doc.Albums, index, index+1)
		return nil
	})
}

func (s LocalAlbumService) IncrementViewCount(ctx context.Context, id string) error {
	return s.withAlbum(id, func(album *models.Album) {
		album.ViewCount++
	})
}

func (s LocalAlbumService) IncrementClickCount(ctx context.Context, id string) error {
	return s.withAlbum(id, func(album *models.Album) {
		album.ClickCount++
	})
}

func (s LocalAlbumService) ReplaceCoverImage(ctx context.Context, id, coverImageURL string) error {
	return s.withAlbum(id, func(album *models.Album) {
		album.CoverImageURL = imageurl.Normalize(coverImageURL)
	})
}

func (s LocalAlbumService) withAlbum(id string, fn func(album *models.Album)) error {
	return s.store.change(func(doc *localDocument) error {
		index := slices.IndexFunc(doc.Albums, func(a models.Album) bool { return a.ID == id })

		if index < 0 {
			return models.ErrAlbumNotFound
		}

		fn(&doc.Albums[index])
		return nil
	})
}

func copyAlbum(album models.Album) models.Album {
	album.Tags = slices.Clone(album.Tags)
	return album
}
