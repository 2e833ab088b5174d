package albumquery_test

import (
	"testing"
	"time"

	"github.com/danielcfuentes/album-studio/pkg/albumquery"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/stretchr/testify/assert"
)

func collection() []models.Album {
	return []models.Album{
		{ID: "1", Title: "One", Tags: models.Tags{"wedding", "outdoor"}, EventDate: models.NewDate(2024, time.May, 1), CreatedAt: models.NewDate(2024, time.May, 3), Featured: true, Visibility: models.VisibilityPublic, ViewCount: 10, ClickCount: 2},
		{ID: "2", Title: "Two", Tags: models.Tags{"event"}, EventDate: models.NewDate(2022, time.March, 9), CreatedAt: models.NewDate(2024, time.January, 1), Visibility: models.VisibilityPublic, ViewCount: 3, ClickCount: 1},
		{ID: "3", Title: "Three", Tags: models.Tags{"secret"}, EventDate: models.NewDate(2019, time.July, 4), CreatedAt: models.NewDate(2024, time.July, 1), Featured: true, Visibility: models.VisibilityUnlisted, ViewCount: 7},
		{ID: "4", Title: "Four", Tags: models.Tags{"outdoor", "portrait"}, EventDate: models.NewDate(2021, time.August, 30), CreatedAt: models.NewDate(2023, time.February, 14), Visibility: models.VisibilityPublic},
		{ID: "5", Title: "Five", Tags: models.Tags{"portrait"}, EventDate: models.NewDate(2024, time.December, 24), CreatedAt: models.NewDate(2025, time.January, 1), Visibility: models.VisibilityPublic},
	}
}

func TestPublicAndFeatured(t *testing.T) {
	assert.Equal(t, []string{"One", "Two", "Four", "Five"}, titles(albumquery.Public(collection())))
	assert.Equal(t, []string{"One"}, titles(albumquery.Featured(collection())))
}

func TestAvailableTagsUsesPublicAlbumsOnly(t *testing.T) {
	assert.Equal(t, []string{"event", "outdoor", "portrait", "wedding"}, albumquery.AvailableTags(collection()))
}

func TestAvailableYearsNewestFirst(t *testing.T) {
	assert.Equal(t, []string{"2024", "2022", "2021"}, albumquery.AvailableYears(collection()))
}

func TestRelated(t *testing.T) {
	albums := collection()

	related := albumquery.Related(albums[0], albums, 3)
	assert.Equal(t, []string{"Four", "Five"}, titles(related))

	related = albumquery.Related(albums[0], albums, 1)
	assert.Equal(t, []string{"Four"}, titles(related))

	assert.Empty(t, albumquery.Related(albums[1], albums, 3))
	assert.Empty(t, albumquery.Related(albums[0], albums, 0))
}

func TestRecent(t *testing.T) {
	albums := collection()
	recent := albumquery.Recent(albums, 3)

	assert.Equal(t, []string{"Five", "Three", "One"}, titles(recent))
	assert.Equal(t, "One", albums[0].Title)
	assert.Len(t, albumquery.Recent(albums, 10), 5)
}

func TestSummarize(t *testing.T) {
	stats := albumquery.Summarize(collection())

	assert.Equal(t, albumquery.Stats{
		TotalAlbums:   5,
		TotalViews:    20,
		TotalClicks:   3,
		FeaturedCount: 2,
	}, stats)
}
