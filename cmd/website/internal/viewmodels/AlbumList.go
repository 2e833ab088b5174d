package viewmodels

import "github.com/danielcfuentes/album-studio/pkg/models"

type AlbumList struct {
	Albums []models.Album `json:"albums"`
	Tags   []string       `json:"tags"`
	Years  []string       `json:"years"`
	Total  int            `json:"total"`
}

type AlbumDetail struct {
	Album   models.Album   `json:"album"`
	Related []models.Album `json:"related"`
}
