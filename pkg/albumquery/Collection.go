package albumquery

import (
	"slices"
	"strconv"

	"github.com/danielcfuentes/album-studio/pkg/models"
)

type Stats struct {
	TotalAlbums   int   `json:"totalAlbums"`
	TotalViews    int64 `json:"totalViews"`
	TotalClicks   int64 `json:"totalClicks"`
	FeaturedCount int   `json:"featuredCount"`
}

func Public(albums []models.Album) []models.Album {
	result := make([]models.Album, 0, len(albums))

	for _, album := range albums {
		if album.IsPublic() {
			result = append(result, album)
		}
	}

	return result
}

func Featured(albums []models.Album) []models.Album {
	result := make([]models.Album, 0)

	for _, album := range albums {
		if album.Featured && album.IsPublic() {
			result = append(result, album)
		}
	}

	return result
}

/*
AvailableTags lists every tag used by a public album, once each, sorted.
*/
func AvailableTags(albums []models.Album) []string {
	seen := map[string]struct{}{}
	result := []string{}

	for _, album := range albums {
		if !album.IsPublic() {
			continue
		}

		for _, tag := range album.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}

			seen[tag] = struct{}{}
			result = append(result, tag)
		}
	}

	slices.Sort(result)
	return result
}

/*
AvailableYears lists the event years of public albums, newest first.
*/
func AvailableYears(albums []models.Album) []string {
	seen := map[string]struct{}{}
	result := []string{}

	for _, album := range albums {
		if !album.IsPublic() || album.EventDate.IsZero() {
			continue
		}

		year := album.EventDate.YearString()

		if _, ok := seen[year]; ok {
			continue
		}

		seen[year] = struct{}{}
		result = append(result, year)
	}

	slices.SortFunc(result, func(a, b string) int {
		left, _ := strconv.Atoi(a)
		right, _ := strconv.Atoi(b)
		return right - left
	})

	return result
}

/*
Related picks up to limit other public albums that share a tag with album or
took place in the same year, in collection order.
*/
func Related(album models.Album, albums []models.Album, limit int) []models.Album {
	if limit <= 0 {
		return []models.Album{}
	}

	result := make([]models.Album, 0, limit)

	for _, candidate := range albums {
		if len(result) >= limit {
			break
		}

		if candidate.ID == album.ID || !candidate.IsPublic() {
			continue
		}

		if sharesTag(album, candidate) || candidate.EventDate.Year() == album.EventDate.Year() {
			result = append(result, candidate)
		}
	}

	return result
}

/*
Recent returns the n most recently created albums.
*/
func Recent(albums []models.Album, n int) []models.Album {
	result := slices.Clone(albums)

	slices.SortStableFunc(result, func(a, b models.Album) int {
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	})

	if n >= 0 && len(result) > n {
		result = result[:n]
	}

	return result
}

func Summarize(albums []models.Album) Stats {
	stats := Stats{
		TotalAlbums: len(albums),
	}

	for _, album := range albums {
		stats.TotalViews += album.ViewCount
		stats.TotalClicks += album.ClickCount

		if album.Featured {
			stats.FeaturedCount++
		}
	}

	return stats
}

func sharesTag(a, b models.Album) bool {
	for _, tag := range b.Tags {
		if a.Tags.Contains(tag) {
			return true
		}
	}

	return false
}
