/*
Package albumquery filters, orders, and summarizes an in-memory album
collection. Nothing here performs I/O or modifies the slices it is given.
*/
package albumquery

import (
	"slices"
	"strings"

	"github.com/danielcfuentes/album-studio/pkg/models"
)

type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortOldest  SortMode = "oldest"
	SortPopular SortMode = "popular"
)

/*
ParseSort maps a user supplied sort name onto a SortMode. Anything unknown
sorts newest first.
*/
func ParseSort(value string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(value))) {
	case SortOldest:
		return SortOldest
	case SortPopular:
		return SortPopular
	default:
		return SortNewest
	}
}

/*
QuerySpec describes a view of the collection. A nil Tag or Year disables
that filter. An empty Text matches everything.
*/
type QuerySpec struct {
	Text string
	Tag  *string
	Year *string
	Sort SortMode
}

/*
Query returns the albums matching every filter in spec, in the requested
order. The sort is stable, so albums that compare equal keep the order they
had in albums.
*/
func Query(albums []models.Album, spec QuerySpec) []models.Album {
	text := strings.ToLower(spec.Text)
	result := make([]models.Album, 0, len(albums))

	for _, album := range albums {
		if text != "" && !matchesText(album, text) {
			continue
		}

		if spec.Tag != nil && !album.Tags.Contains(*spec.Tag) {
			continue
		}

		if spec.Year != nil && album.EventDate.YearString() != *spec.Year {
			continue
		}

		result = append(result, album)
	}

	switch spec.Sort {
	case SortOldest:
		slices.SortStableFunc(result, func(a, b models.Album) int {
			return a.EventDate.Compare(b.EventDate.Time)
		})

	case SortPopular:
		slices.SortStableFunc(result, func(a, b models.Album) int {
			return compareInt64(b.ViewCount, a.ViewCount)
		})

	default:
		slices.SortStableFunc(result, func(a, b models.Album) int {
			return b.EventDate.Compare(a.EventDate.Time)
		})
	}

	return result
}

func matchesText(album models.Album, lowerText string) bool {
	if strings.Contains(strings.ToLower(album.Title), lowerText) ||
		strings.Contains(strings.ToLower(album.Description), lowerText) ||
		strings.Contains(strings.ToLower(album.Location), lowerText) {
		return true
	}

	for _, tag := range album.Tags {
		if strings.Contains(strings.ToLower(tag), lowerText) {
			return true
		}
	}

	return false
}

/*
AdminSearch is the admin album table's search box. It only looks at title
and location, unlike the public search in Query.
*/
func AdminSearch(albums []models.Album, text string) []models.Album {
	lowerText := strings.ToLower(text)
	result := make([]models.Album, 0, len(albums))

	for _, album := range albums {
		if lowerText == "" ||
			strings.Contains(strings.ToLower(album.Title), lowerText) ||
			strings.Contains(strings.ToLower(album.Location), lowerText) {
			result = append(result, album)
		}
	}

	return result
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
