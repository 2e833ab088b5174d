package viewmodels

import (
	"time"

	"github.com/danielcfuentes/album-studio/pkg/albumquery"
	"github.com/danielcfuentes/album-studio/pkg/models"
)

type Dashboard struct {
	Stats        albumquery.Stats `json:"stats"`
	RecentAlbums []models.Album   `json:"recentAlbums"`
	ContactCount int              `json:"contactCount"`
	LoggedInAt   time.Time        `json:"loggedInAt"`
}
