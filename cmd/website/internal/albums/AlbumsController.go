package albums

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/respond"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/viewmodels"
	"github.com/danielcfuentes/album-studio/pkg/albumquery"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/services"
)

const relatedAlbumLimit = 3

type AlbumsHandlers interface {
	AlbumList(w http.ResponseWriter, r *http.Request)
	FeaturedAlbums(w http.ResponseWriter, r *http.Request)
	AlbumDetail(w http.ResponseWriter, r *http.Request)
	RecordView(w http.ResponseWriter, r *http.Request)
	RecordClick(w http.ResponseWriter, r *http.Request)
}

type AlbumsControllerConfig struct {
	AlbumService services.AlbumServicer
}

type AlbumsController struct {
	albumService services.AlbumServicer
}

func NewAlbumsController(config AlbumsControllerConfig) AlbumsController {
	return AlbumsController{
		albumService: config.AlbumService,
	}
}

/*
GET /api/albums?q=&tag=&year=&sort=
*/
func (c AlbumsController) AlbumList(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		albums []models.Album
	)

	if albums, err = c.albumService.List(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	public := albumquery.Public(albums)

	spec := albumquery.QuerySpec{
		Text: httphelpers.GetFromRequest[string](r, "q"),
		Tag:  optional(httphelpers.GetFromRequest[string](r, "tag")),
		Year: optional(httphelpers.GetFromRequest[string](r, "year")),
		Sort: albumquery.ParseSort(httphelpers.GetFromRequest[string](r, "sort")),
	}

	result := albumquery.Query(public, spec)

	respond.OK(w, viewmodels.AlbumList{
		Albums: result,
		Tags:   albumquery.AvailableTags(public),
		Years:  albumquery.AvailableYears(public),
		Total:  len(result),
	})
}

/*
GET /api/albums/featured
*/
func (c AlbumsController) FeaturedAlbums(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		albums []models.Album
	)

	if albums, err = c.albumService.List(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, albumquery.Featured(albums))
}

/*
GET /api/albums/{slug}
*/
func (c AlbumsController) AlbumDetail(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		album  models.Album
		albums []models.Album
	)

	slug := httphelpers.GetFromRequest[string](r, "slug")

	if album, err = c.albumService.GetBySlug(r.Context(), slug); err != nil {
		respond.Error(w, err)
		return
	}

	if albums, err = c.albumService.List(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, viewmodels.AlbumDetail{
		Album:   album,
		Related: albumquery.Related(album, albums, relatedAlbumLimit),
	})
}

/*
POST /api/albums/{id}/view
*/
func (c AlbumsController) RecordView(w http.ResponseWriter, r *http.Request) {
	if err := c.albumService.IncrementViewCount(r.Context(), httphelpers.GetFromRequest[string](r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.NoContent(w)
}

/*
POST /api/albums/{id}/click
*/
func (c AlbumsController) RecordClick(w http.ResponseWriter, r *http.Request) {
	if err := c.albumService.IncrementClickCount(r.Context(), httphelpers.GetFromRequest[string](r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.NoContent(w)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
